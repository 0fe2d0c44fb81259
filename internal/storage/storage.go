package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// Options configures the database connection.
type Options struct {
	Driver       string // "sqlite" or "postgres"
	DSN          string
	MaxIdleConns int
	MaxOpenConns int
	LogSQL       bool
}

// Open connects to the configured database and runs migrations.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "sqlite", "":
		dsn := opts.DSN
		if dsn == "" {
			dsn = "ledgerline.db"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
	}

	logLevel := gormlogger.Silent
	if opts.LogSQL {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if opts.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("getting sql.DB: %w", err)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the relational schema for all ledger
// entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Account{},
		&model.JournalEntry{},
		&model.JournalItem{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Bill{},
		&model.BillItem{},
		&model.Budget{},
		&model.BudgetItem{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// OpenTest opens a private in-memory SQLite database with the full
// schema. Each call gets its own database; cache=shared keeps it alive
// across the pooled connections of one *gorm.DB.
func OpenTest() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return Open(Options{Driver: "sqlite", DSN: dsn})
}

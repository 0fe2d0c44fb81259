package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level ledgerline.yaml configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Control  ControlConfig  `mapstructure:"control_accounts"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // "debug" or "release"
}

// DatabaseConfig selects and tunes the storage backend.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogSQL       bool   `mapstructure:"log_sql"`
}

// ControlConfig names the control accounts the subsidiary ledger bridge
// posts against.
type ControlConfig struct {
	Receivable    string `mapstructure:"receivable"`
	Payable       string `mapstructure:"payable"`
	Cash          string `mapstructure:"cash"`
	Revenue       string `mapstructure:"revenue"`
	Expense       string `mapstructure:"expense"`
	TaxPayable    string `mapstructure:"tax_payable"`
	TaxReceivable string `mapstructure:"tax_receivable"`
}

// Load reads configuration from the given file (or ./ledgerline.yaml when
// empty), with LEDGERLINE_* environment variables taking precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ledgerline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEDGERLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present:
// local SQLite, debug server, the seed chart's control accounts.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "ledgerline.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.log_sql", false)
	v.SetDefault("control_accounts.receivable", "1100")
	v.SetDefault("control_accounts.payable", "2000")
	v.SetDefault("control_accounts.cash", "1010")
	v.SetDefault("control_accounts.revenue", "4000")
	v.SetDefault("control_accounts.expense", "5300")
	v.SetDefault("control_accounts.tax_payable", "2100")
	v.SetDefault("control_accounts.tax_receivable", "1400")
}

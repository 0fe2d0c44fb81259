package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "1100", cfg.Control.Receivable)
	assert.Equal(t, "2000", cfg.Control.Payable)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledgerline.yaml")
	content := `
server:
  port: "9090"
  mode: release
database:
  driver: postgres
  dsn: "host=db user=ledger dbname=ledger"
control_accounts:
  cash: "1000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "1000", cfg.Control.Cash)

	// Unset keys keep their defaults.
	assert.Equal(t, "1100", cfg.Control.Receivable)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/ledgerline.yaml")
	require.Error(t, err)
}

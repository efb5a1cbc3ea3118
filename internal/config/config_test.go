package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDriverChoices(t *testing.T) {
	cfg := &Config{Port: "8000", DBDriver: DriverSQLite, SQLitePath: "test.db"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{Port: "8000", DBDriver: DriverPostgres}
	assert.Error(t, cfg.Validate(), "postgres without DATABASE_URL must fail")

	cfg = &Config{Port: "8000", DBDriver: DriverPostgres, DatabaseURL: "postgres://localhost/carrental"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{Port: "8000", DBDriver: "mongodb"}
	assert.Error(t, cfg.Validate(), "unknown driver must fail")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGIN", "")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("SQLITE_PATH", "test.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "*", cfg.AllowedOrigin)
}

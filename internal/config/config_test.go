package config

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
common:
  http:
    port: 9090
  pairing:
    reminder_streak: 3
  users:
    list:
      - name: Ada
        identifier: ada
        active: true
      - name: Linus
        identifier: torvalds
        active: false
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Common.Http.Port)
	assert.Equal(t, "0.0.0.0", cfg.Common.Http.Host)
	assert.Equal(t, 3, cfg.Common.Pairing.ReminderStreak)
	assert.Equal(t, 100, cfg.Common.Pairing.MaxRegenerateAttempts)
	assert.Equal(t, DriverPostgres, cfg.Common.Database.Driver)
	require.Len(t, cfg.Common.Users.List, 2)
	assert.Equal(t, UserEntry{Name: "Ada", Identifier: "ada", Active: true}, cfg.Common.Users.List[0])
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown driver", "common:\n  database:\n    driver: mysql\n"},
		{"zero streak", "common:\n  pairing:\n    reminder_streak: 0\n"},
		{"zero attempts", "common:\n  pairing:\n    max_regenerate_attempts: 0\n"},
		{"bad port", "common:\n  http:\n    port: 70000\n"},
		{"malformed yaml", "common: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := postgresConfig{
		User:     "pair user",
		Password: "p@ss",
		Host:     "db",
		Port:     5433,
		Database: "pairup",
	}
	assert.Equal(t, "postgres://pair%20user:p%40ss@db:5433/pairup?sslmode=disable", cfg.DSN())
}

func TestPostgresDSNRoundTripsCredentials(t *testing.T) {
	cfg := postgresConfig{
		User:     "pair user",
		Password: "p a+s/s:@?",
		Host:     "::1",
		Port:     5432,
		Database: "pairup",
	}

	parsed, err := url.Parse(cfg.DSN())
	require.NoError(t, err)
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "pair user", parsed.User.Username())
	assert.Equal(t, "p a+s/s:@?", password)
	assert.Equal(t, "::1", parsed.Hostname())
	assert.Equal(t, "5432", parsed.Port())
	assert.Equal(t, "/pairup", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pairup.yaml")
	require.NoError(t, os.WriteFile(file, []byte("common:\n  log:\n    level: debug\n"), 0o600))

	t.Setenv("PAIRUP_CONFIG_FILE", file)
	t.Setenv("PORT", "4000")
	t.Setenv("PAIRUP_DB_DRIVER", DriverMemory)
	t.Setenv("PAIRUP_USERS_B64", "W10=")
	t.Setenv("PAIRUP_HTTP_ALLOWED_ORIGINS", "http://localhost:5173, https://pairs.example.com")

	Load()
	t.Cleanup(func() { _loaded = nil })

	assert.Equal(t, "debug", Logger().Level)
	assert.Equal(t, 4000, Http().Port)
	assert.Equal(t, []string{"http://localhost:5173", "https://pairs.example.com"}, Http().AllowedOrigins)
	assert.Equal(t, DriverMemory, Database().Driver)
	assert.Equal(t, "W10=", Users().Base64)
	assert.NoError(t, Get().Validate())
}

func TestGettersPanicBeforeLoad(t *testing.T) {
	_loaded = nil
	assert.Panics(t, func() { Pairing() })

	LoadDefault()
	t.Cleanup(func() { _loaded = nil })
	assert.Equal(t, 5, Pairing().ReminderStreak)
}

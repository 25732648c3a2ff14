package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
[database]
user = "registry"
dbname = "platform"

[tenant_database]
user = "tenant"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.TenantDatabase.Port)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 300, cfg.Redis.TenantTTL)
	assert.Equal(t, "BK", cfg.Booking.ReferencePrefix)
	assert.Equal(t, 5, cfg.Booking.ReferenceAttempts)
	assert.True(t, cfg.Booking.DoubleBookingGuard())
	assert.False(t, cfg.Booking.EnforceAdvanceWindow)
	assert.Equal(t, RegistrySourceDatabase, cfg.Registry.Source)
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("TENANT_DB_PASSWORD", "tenant-secret")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load(writeConfig(t, minimal+`
[server]
http_port = 8000

[booking]
prevent_double_booking = false
enforce_advance_window = true
reference_prefix = "RS"

[registry]
source = "http"
base_url = "http://platform.local"
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.False(t, cfg.Booking.DoubleBookingGuard())
	assert.True(t, cfg.Booking.EnforceAdvanceWindow)
	assert.Equal(t, "RS", cfg.Booking.ReferencePrefix)
	assert.Equal(t, RegistrySourceHTTP, cfg.Registry.Source)
	assert.Equal(t,
		"host=localhost port=5432 user=tenant password=tenant-secret dbname=site_42 sslmode=disable",
		cfg.TenantDatabase.DSNFor("site_42"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[server\n"))
	assert.Error(t, err)

	t.Setenv("HTTP_PORT", "eighty")
	_, err = Load(writeConfig(t, minimal))
	assert.ErrorContains(t, err, "HTTP_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"port", func(c *Config) { c.Server.HTTPPort = 70000 }, "server.http_port"},
		{"registry db", func(c *Config) { c.Database.DBName = "" }, "database.dbname"},
		{"log level", func(c *Config) { c.Logs.Level = "verbose" }, "logs.level"},
		{"attempts", func(c *Config) { c.Booking.ReferenceAttempts = 0 }, "reference_attempts"},
		{"http registry", func(c *Config) { c.Registry.Source = RegistrySourceHTTP }, "registry.base_url"},
		{"unknown registry", func(c *Config) { c.Registry.Source = "ldap" }, "registry.source"},
		{"pool", func(c *Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Database.User = "registry"
			cfg.Database.DBName = "platform"
			cfg.TenantDatabase.User = "tenant"
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

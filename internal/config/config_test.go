package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, "America/New_York", c.DefaultTimeZone)
	assert.Equal(t, 10.0, c.RateLimitRPS)
	assert.Equal(t, 20, c.RateLimitBurst)
	assert.False(t, c.RemindersEnabled())
}

func TestApplyHCL(t *testing.T) {
	src := []byte(`
database_url      = "postgres://localhost/jobtrack"
listen_addr       = ":9000"
default_time_zone = "Europe/Berlin"
log_json          = true

rate_limit {
  rps = 2.5
}

reminders {
  webhook_url    = "https://hooks.example.com/x"
  webhook_secret = "shh"
  interval       = "15m"
}
`)
	c := Default()
	require.NoError(t, c.ApplyHCL(src, "jobtrack.hcl"))

	assert.Equal(t, "postgres://localhost/jobtrack", c.DatabaseURL)
	assert.Equal(t, ":9000", c.ListenAddr)
	assert.Equal(t, "Europe/Berlin", c.DefaultTimeZone)
	assert.True(t, c.LogJSON)
	assert.Equal(t, 2.5, c.RateLimitRPS)
	assert.Equal(t, 20, c.RateLimitBurst)
	assert.Equal(t, "https://hooks.example.com/x", c.ReminderWebhookURL)
	assert.True(t, c.RemindersEnabled())
	assert.Equal(t, 15*time.Minute, c.ReminderInterval)
}

func TestApplyHCLRejectsUnknownAttributes(t *testing.T) {
	c := Default()
	err := c.ApplyHCL([]byte(`listen_port = 80`), "jobtrack.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobtrack.hcl")
}

func TestApplyEnvOverridesFile(t *testing.T) {
	c := Default()
	require.NoError(t, c.ApplyHCL([]byte(`listen_addr = ":9000"`), "jobtrack.hcl"))
	require.NoError(t, c.ApplyEnv(envMap(map[string]string{
		"LISTEN_ADDR":      ":7000",
		"DATABASE_URL":     "postgres://db/app",
		"JWT_SECRET":       "secret",
		"LOG_JSON":         "1",
		"RATE_LIMIT_BURST": "3",
		"CRON_SECRET":      "   ",
	})))

	assert.Equal(t, ":7000", c.ListenAddr)
	assert.Equal(t, "postgres://db/app", c.DatabaseURL)
	assert.True(t, c.LogJSON)
	assert.Equal(t, 3, c.RateLimitBurst)
	assert.Empty(t, c.CronSecret)
	require.NoError(t, c.Validate())
}

func TestApplyEnvRejectsMalformedNumbers(t *testing.T) {
	for key, val := range map[string]string{
		"LOG_JSON":          "maybe",
		"RATE_LIMIT_RPS":    "fast",
		"RATE_LIMIT_BURST":  "1.5",
		"REMINDER_INTERVAL": "hourly",
	} {
		c := Default()
		err := c.ApplyEnv(envMap(map[string]string{key: val}))
		require.Error(t, err, key)
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.DatabaseURL = "postgres://db/app"
		c.JWTSecret = "secret"
		return c
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"missing database":       func(c *Config) { c.DatabaseURL = "" },
		"missing jwt secret":     func(c *Config) { c.JWTSecret = "" },
		"bad zone":               func(c *Config) { c.DefaultTimeZone = "Moon/Base" },
		"zero burst":             func(c *Config) { c.RateLimitBurst = 0 },
		"webhook without secret": func(c *Config) { c.ReminderWebhookURL = "https://x" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobtrack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url = "postgres://file/app"
jwt_secret   = "from-file"
`), 0o600))

	t.Chdir(dir)
	t.Setenv(EnvConfigFile, path)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LISTEN_ADDR", ":6000")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/app", c.DatabaseURL)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, ":6000", c.ListenAddr)
}

// Package config loads server settings from an optional HCL file, a .env
// file and the process environment, in increasing order of precedence.
//
// A config file looks like:
//
//	listen_addr       = ":8080"
//	default_time_zone = "America/Chicago"
//	log_json          = true
//
//	rate_limit {
//	  rps   = 5
//	  burst = 10
//	}
//
//	reminders {
//	  webhook_url    = "https://hooks.example.com/jobtrack"
//	  webhook_secret = "s3cret"
//	  interval       = "15m"
//	}
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"

	"github.com/jobtrack/jobtrack/internal/datetz"
)

// EnvConfigFile names the variable holding the config file path.
const EnvConfigFile = "JOBTRACK_CONFIG"

// Config holds the server settings.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	ListenAddr      string
	CronSecret      string
	DefaultTimeZone string
	LogJSON         bool
	RateLimitRPS    float64
	RateLimitBurst  int
	MigrationsDir   string

	ReminderWebhookURL    string
	ReminderWebhookSecret string
	// ReminderInterval runs reminders in-process at this period. Zero leaves
	// them to the cron endpoint.
	ReminderInterval time.Duration
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		ListenAddr:      ":8080",
		DefaultTimeZone: datetz.DefaultZone,
		RateLimitRPS:    10,
		RateLimitBurst:  20,
	}
}

type fileConfig struct {
	DatabaseURL     string `hcl:"database_url,optional"`
	JWTSecret       string `hcl:"jwt_secret,optional"`
	ListenAddr      string `hcl:"listen_addr,optional"`
	CronSecret      string `hcl:"cron_secret,optional"`
	DefaultTimeZone string `hcl:"default_time_zone,optional"`
	LogJSON         *bool  `hcl:"log_json,optional"`
	MigrationsDir   string `hcl:"migrations_dir,optional"`

	RateLimit *rateLimitBlock `hcl:"rate_limit,block"`
	Reminders *reminderBlock  `hcl:"reminders,block"`
}

type rateLimitBlock struct {
	RPS   float64 `hcl:"rps,optional"`
	Burst int     `hcl:"burst,optional"`
}

type reminderBlock struct {
	WebhookURL    string `hcl:"webhook_url,optional"`
	WebhookSecret string `hcl:"webhook_secret,optional"`
	Interval      string `hcl:"interval,optional"`
}

// Load reads .env (if present), the file named by JOBTRACK_CONFIG (if set)
// and the environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "loading .env")
	}

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
		if err := cfg.ApplyHCL(src, path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyHCL overlays the settings present in an HCL document. filename must
// end in ".hcl" (or ".json" for the JSON syntax).
func (c *Config) ApplyHCL(src []byte, filename string) error {
	var f fileConfig
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		var diags hcl.Diagnostics
		if errors.As(err, &diags) {
			for _, d := range diags {
				if d.Severity == hcl.DiagError {
					return errors.Newf("config %s: %s: %s", filename, d.Summary, d.Detail)
				}
			}
		}
		return errors.Wrapf(err, "parsing config %s", filename)
	}

	setString(&c.DatabaseURL, f.DatabaseURL)
	setString(&c.JWTSecret, f.JWTSecret)
	setString(&c.ListenAddr, f.ListenAddr)
	setString(&c.CronSecret, f.CronSecret)
	setString(&c.DefaultTimeZone, f.DefaultTimeZone)
	setString(&c.MigrationsDir, f.MigrationsDir)
	if f.LogJSON != nil {
		c.LogJSON = *f.LogJSON
	}
	if rl := f.RateLimit; rl != nil {
		if rl.RPS != 0 {
			c.RateLimitRPS = rl.RPS
		}
		if rl.Burst != 0 {
			c.RateLimitBurst = rl.Burst
		}
	}
	if r := f.Reminders; r != nil {
		setString(&c.ReminderWebhookURL, r.WebhookURL)
		setString(&c.ReminderWebhookSecret, r.WebhookSecret)
		if r.Interval != "" {
			d, err := time.ParseDuration(r.Interval)
			if err != nil {
				return errors.Wrapf(err, "config %s: reminders.interval", filename)
			}
			c.ReminderInterval = d
		}
	}
	return nil
}

// ApplyEnv overlays settings from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	for key, dst := range map[string]*string{
		"DATABASE_URL":            &c.DatabaseURL,
		"JWT_SECRET":              &c.JWTSecret,
		"LISTEN_ADDR":             &c.ListenAddr,
		"CRON_SECRET":             &c.CronSecret,
		"DEFAULT_TIME_ZONE":       &c.DefaultTimeZone,
		"MIGRATIONS_DIR":          &c.MigrationsDir,
		"REMINDER_WEBHOOK_URL":    &c.ReminderWebhookURL,
		"REMINDER_WEBHOOK_SECRET": &c.ReminderWebhookSecret,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	if v, ok := get("LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "LOG_JSON")
		}
		c.LogJSON = b
	}
	if v, ok := get("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "RATE_LIMIT_RPS")
		}
		c.RateLimitRPS = f
	}
	if v, ok := get("RATE_LIMIT_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "RATE_LIMIT_BURST")
		}
		c.RateLimitBurst = n
	}
	if v, ok := get("REMINDER_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "REMINDER_INTERVAL")
		}
		c.ReminderInterval = d
	}
	return nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	switch {
	case c.DatabaseURL == "":
		return errors.New("DATABASE_URL is required")
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.ListenAddr == "":
		return errors.New("listen address must not be empty")
	case !datetz.ValidZone(c.DefaultTimeZone):
		return errors.Newf("default time zone %q is not a valid IANA zone", c.DefaultTimeZone)
	case c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0:
		return errors.New("rate limit rps and burst must be positive")
	case c.ReminderInterval < 0:
		return errors.New("reminder interval must not be negative")
	case c.ReminderWebhookURL != "" && c.ReminderWebhookSecret == "":
		return errors.New("REMINDER_WEBHOOK_SECRET is required when a reminder webhook is set")
	}
	return nil
}

// RemindersEnabled reports whether a reminder webhook is configured.
func (c *Config) RemindersEnabled() bool {
	return c.ReminderWebhookURL != ""
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

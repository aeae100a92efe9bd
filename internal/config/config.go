// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Mail drivers accepted by MAIL_DRIVER.
const (
	MailDriverLog  = "log"
	MailDriverSMTP = "smtp"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"3333"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `ignored:"true"`

	// APIBaseURL is the public URL of this API; confirmation links in
	// emails point here.
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:3333"`

	// WebBaseURL is the public URL of the web client; confirmation
	// endpoints redirect the browser here.
	WebBaseURL string `envconfig:"WEB_BASE_URL" default:"http://localhost:5173"`

	// MailDriver selects the outgoing mail transport: "log" writes messages
	// to the application log, "smtp" delivers them.
	MailDriver      string `envconfig:"MAIL_DRIVER" default:"log"`
	SMTPHost        string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort        int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUsername    string `envconfig:"SMTP_USERNAME"`
	SMTPPassword    string `envconfig:"SMTP_PASSWORD"`
	MailFromName    string `envconfig:"MAIL_FROM_NAME" default:"plann.er"`
	MailFromAddress string `envconfig:"MAIL_FROM_ADDRESS" default:"hello@plann.er"`

	// MailConcurrency caps how many emails are sent at once per request.
	MailConcurrency int `envconfig:"MAIL_CONCURRENCY" default:"4"`
	// MailRetryAttempts is the total number of tries per recipient.
	MailRetryAttempts uint          `envconfig:"MAIL_RETRY_ATTEMPTS" default:"3"`
	MailRetryDelay    time.Duration `envconfig:"MAIL_RETRY_DELAY" default:"200ms"`

	// MaxBodyBytes caps request bodies; larger requests get 413.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// ShutdownTimeout bounds how long in-flight requests may run after SIGTERM.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	// AutoMigrate applies pending goose migrations at startup.
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"true"`
}

// env is what envconfig fills. CORS_ORIGINS arrives as one string and is
// split into Config.CORSOrigins afterwards.
type env struct {
	Config
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
}

// Load reads an optional .env file, then configuration from environment
// variables, and returns a Config. Variables already set in the environment
// win over the file. Empty variables count as unset.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: read .env: %w", err)
	}
	unsetEmpty(reflect.TypeOf(env{}))

	var raw env
	if err := envconfig.Process("", &raw); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg := raw.Config
	cfg.CORSOrigins = splitCSV(raw.CORSOrigins)

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.MailDriver != MailDriverLog && cfg.MailDriver != MailDriverSMTP {
		return Config{}, fmt.Errorf("config.Load: MAIL_DRIVER must be %q or %q, got %q", MailDriverLog, MailDriverSMTP, cfg.MailDriver)
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config.Load: MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}

	return cfg, nil
}

// unsetEmpty removes every variable t reads that is set to the empty
// string, so envconfig applies the default instead of parsing "".
func unsetEmpty(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			unsetEmpty(f.Type)
			continue
		}
		key := f.Tag.Get("envconfig")
		if key == "" {
			continue
		}
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) == "" {
			_ = os.Unsetenv(key)
		}
	}
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

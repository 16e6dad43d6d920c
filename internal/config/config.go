package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Company   CompanyConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	Notify    NotifyConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port         string        `env:"APP_PORT" envDefault:"8080"`
	Environment  string        `env:"APP_ENV" envDefault:"production"`
	AllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
}

// StorageConfig selects the persistence backend. "memory" keeps everything
// in process and is meant for local runs only.
type StorageConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"mongodb"`
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI            string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName         string        `env:"MONGODB_DB_NAME" envDefault:"cctvstore"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// AuthConfig holds token signing and cookie options.
type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"JWT_TTL" envDefault:"24h"`
	CookieName   string        `env:"AUTH_COOKIE_NAME" envDefault:"token"`
	SecureCookie bool          `env:"AUTH_COOKIE_SECURE" envDefault:"false"`
}

// CompanyConfig is printed on generated invoices.
type CompanyConfig struct {
	Name    string `env:"COMPANY_NAME" envDefault:"CCTV Store"`
	Address string `env:"COMPANY_ADDRESS"`
	Phone   string `env:"COMPANY_PHONE"`
	Email   string `env:"COMPANY_EMAIL"`
	GSTIN   string `env:"COMPANY_GSTIN"`
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule      string `env:"REPORT_CRON_SCHEDULE" envDefault:"0 21 * * *"`
	Timezone          string `env:"TIMEZONE" envDefault:"Asia/Kolkata"`
	LowStockThreshold int    `env:"LOW_STOCK_THRESHOLD" envDefault:"5"`
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Both fields empty disables the export.
type SheetsConfig struct {
	CredentialsPath string `env:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SpreadsheetID   string `env:"GOOGLE_SHEET_ID"`
	SummaryTab      string `env:"GOOGLE_SHEETS_SUMMARY_TAB" envDefault:"Summary"`
}

// Enabled reports whether the Sheets export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// NotifyConfig configures the optional digest webhook.
type NotifyConfig struct {
	WebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch {
	case c.Server.Port == "":
		return errors.New("APP_PORT must be provided")
	case c.Storage.Driver != "mongodb" && c.Storage.Driver != "memory":
		return fmt.Errorf("STORE_DRIVER %q is not supported", c.Storage.Driver)
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	case c.Auth.JWTSecret == "":
		return errors.New("JWT_SECRET must be provided")
	case c.Auth.TokenTTL <= 0:
		return errors.New("JWT_TTL must be positive")
	case c.Auth.CookieName == "":
		return errors.New("AUTH_COOKIE_NAME must not be empty")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_ID must be set together")
	}

	return nil
}

// Location returns the reporting timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

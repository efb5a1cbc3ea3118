// Package config resolves all deployment choices once at process start from
// environment variables, including which storage backend to run against.
package config

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port     string
	DBDriver string

	// DatabaseURL is the Postgres DSN; SQLitePath the embedded database file.
	// Only the one matching DBDriver is required.
	DatabaseURL string
	SQLitePath  string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	SendGridAPIKey string
	FromEmail      string
	FromName       string
	NotifyEmail    string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	NotifyPhone      string

	AllowedOrigin string
}

// Load reads the environment (after a best-effort .env load) into a validated
// Config.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:             getenv("PORT", "8000"),
		DBDriver:         getenv("DB_DRIVER", DriverPostgres),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       getenv("SQLITE_PATH", "carrental.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		FromEmail:        os.Getenv("SENDGRID_FROM_EMAIL"),
		FromName:         getenv("SENDGRID_FROM_NAME", "Car Rental"),
		NotifyEmail:      os.Getenv("NOTIFY_EMAIL"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		NotifyPhone:      os.Getenv("NOTIFY_PHONE"),
		AllowedOrigin:    getenv("CORS_ALLOWED_ORIGIN", "*"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DatabaseURL, validation.Required.When(c.DBDriver == DriverPostgres).
			Error("DATABASE_URL must be set when DB_DRIVER is postgres")),
		validation.Field(&c.SQLitePath, validation.Required.When(c.DBDriver == DriverSQLite).
			Error("SQLITE_PATH must be set when DB_DRIVER is sqlite")),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

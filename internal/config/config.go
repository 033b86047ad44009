package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PaymentProvider values understood by the payments service.
const (
	ProviderStripe = "stripe"
	ProviderMock   = "mock"
)

// Config is everything the client binaries read from the environment.
type Config struct {
	Env        string // "dev" | "production"
	APIBaseURL string

	// Session state file; defaults under the user config dir.
	SessionFile string

	Payment PaymentConfig
	Log     LogConfig

	// Stub backend settings (cmd/mockapi only).
	Mock MockConfig
}

type PaymentConfig struct {
	Provider        string // "stripe" | "mock"
	StripeSecretKey string
}

type LogConfig struct {
	Level  string
	Format string // "console" | "json"
}

type MockConfig struct {
	Port        string
	JWTSecret   string
	DatabaseURL string // empty → in-memory sqlite
	TokenTTL    time.Duration
}

// Load reads .env (best effort) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("PAYMENT_PROVIDER", ProviderMock)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("PORT", "3000")
	v.SetDefault("JWT_SECRET", "dev-secret")
	v.SetDefault("TOKEN_TTL", "168h")

	sessionFile := v.GetString("SESSION_FILE")
	if sessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		sessionFile = filepath.Join(dir, "legal-mp", "session.json")
	}

	ttl, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil {
		ttl = 7 * 24 * time.Hour
	}

	return &Config{
		Env:         v.GetString("APP_ENV"),
		APIBaseURL:  v.GetString("API_BASE_URL"),
		SessionFile: sessionFile,
		Payment: PaymentConfig{
			Provider:        v.GetString("PAYMENT_PROVIDER"),
			StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Mock: MockConfig{
			Port:        v.GetString("PORT"),
			JWTSecret:   v.GetString("JWT_SECRET"),
			DatabaseURL: v.GetString("DATABASE_URL"),
			TokenTTL:    ttl,
		},
	}, nil
}

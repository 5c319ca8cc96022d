package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	DatabaseURL       string `toml:"database_url"`
	JWTSecret         string `toml:"jwt_secret"`
	Port              string `toml:"port"`
	GoogleClientIDs   string `toml:"google_client_ids"`
	FCMServiceAccount string `toml:"fcm_service_account"`
	DefaultCurrency   string `toml:"default_currency"`
	DefaultLocale     string `toml:"default_locale"`
	CORSOrigins       string `toml:"cors_origins"`
	CatalogFile       string `toml:"catalog_file"`
}

func defaults() Config {
	return Config{
		DatabaseURL:     "goalplan.db",
		JWTSecret:       "your-secret-key-change-in-production",
		Port:            "8080",
		DefaultCurrency: "USD",
		DefaultLocale:   "en",
		CORSOrigins:     "*",
	}
}

// Load builds the configuration from, in increasing priority: built-in
// defaults, the TOML file named by CONFIG_FILE, and environment variables
// (a .env file in the working directory is read first).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("CONFIG: .env not loaded: %v", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GoogleClientIDs = getEnv("GOOGLE_CLIENT_IDS", cfg.GoogleClientIDs)
	cfg.FCMServiceAccount = getEnv("FCM_SERVICE_ACCOUNT", cfg.FCMServiceAccount)
	cfg.DefaultCurrency = getEnv("DEFAULT_CURRENCY", cfg.DefaultCurrency)
	cfg.DefaultLocale = getEnv("DEFAULT_LOCALE", cfg.DefaultLocale)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.CatalogFile = getEnv("CATALOG_FILE", cfg.CatalogFile)

	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency)))
	if err != nil {
		return nil, fmt.Errorf("default currency %q: %w", cfg.DefaultCurrency, err)
	}
	cfg.DefaultCurrency = unit.String()

	return &cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

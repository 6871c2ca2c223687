package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs; it is resolved once in main
// and handed to components explicitly.
type Config struct {
	MongoURI  string
	DBName    string
	JWTSecret string
	TokenTTL  time.Duration
	Port      string
}

// Load reads .env when present and resolves the configuration from the
// environment. JWT_SECRET has no default; running without one is a
// misconfiguration, not something to paper over.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := Config{
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:    getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:  getDurationEnv("TOKEN_TTL_HOURS", 5, time.Hour),
		Port:      getEnvOrDefault("PORT", "8080"),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("ENV JWT_SECRET is required")
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

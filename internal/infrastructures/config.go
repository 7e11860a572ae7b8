package infrastructures

import (
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	PORT              string
	DATABASE_URL      string
	REDIS_ADDRESS     string
	REDIS_PASSWORD    string
	IDENTITY_BASE_URL string
	MAIL_API_URL      string
	MAIL_API_KEY      string
	MAIL_FROM         string
	GEOCODER_BASE_URL string
	EXPIRY_SWEEP_CRON string
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	Config = &AppConfig{
		PORT:              getEnv("PORT", "8080"),
		DATABASE_URL:      os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:     os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:    os.Getenv("REDIS_PASSWORD"),
		IDENTITY_BASE_URL: os.Getenv("IDENTITY_BASE_URL"),
		MAIL_API_URL:      os.Getenv("MAIL_API_URL"),
		MAIL_API_KEY:      os.Getenv("MAIL_API_KEY"),
		MAIL_FROM:         getEnv("MAIL_FROM", "hello@happyhour.app"),
		GEOCODER_BASE_URL: os.Getenv("GEOCODER_BASE_URL"),
		EXPIRY_SWEEP_CRON: getEnv("EXPIRY_SWEEP_CRON", "* * * * *"),
	}

	return Config
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

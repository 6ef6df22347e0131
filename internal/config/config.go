package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the API process
type Config struct {
	Port      string
	Env       string
	UploadDir string
	JWTSecret string
	JWTTTL    time.Duration
	Database  DatabaseConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
	LogLevel string
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the parts
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

// Load reads .env (if present) and then the process environment.
// It reports whether the .env file was found so the caller can warn.
func Load() (*Config, bool, error) {
	envLoaded := godotenv.Load() == nil

	ttlHours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		return nil, envLoaded, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "3000"),
		Env:       getEnv("APP_ENV", "development"),
		UploadDir: getEnv("UPLOAD_DIR", "./public/uploads"),
		JWTSecret: getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTTTL:    time.Duration(ttlHours) * time.Hour,
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
	}

	if cfg.Database.URL == "" && (cfg.Database.Host == "" || cfg.Database.Name == "") {
		return nil, envLoaded, fmt.Errorf("database config incomplete: set DATABASE_URL or DB_HOST and DB_NAME")
	}
	return cfg, envLoaded, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

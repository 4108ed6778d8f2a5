package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinBcryptCost is the lowest password hashing cost the service accepts.
const MinBcryptCost = 10

type Config struct {
	Port                    string
	Env                     string
	MetricsPort             string
	MongoURI                string
	MongoDatabase           string
	PostgresUrl             string
	JWTSecret               string
	TokenTTL                time.Duration
	BcryptCost              int
	FirebaseCredentialsPath string
	LogLevel                string
}

// Load reads a .env file when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "recipeshare"),
		PostgresUrl:             getEnv("POSTGRES_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		TokenTTL:                getDuration("TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:              getInt("BCRYPT_COST", MinBcryptCost),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is not set"))
	}
	if c.PostgresUrl == "" {
		errs = append(errs, errors.New("POSTGRES_URL is not set"))
	}
	if c.BcryptCost < MinBcryptCost {
		c.BcryptCost = MinBcryptCost
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

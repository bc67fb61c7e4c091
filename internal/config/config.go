package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Session  SessionConfig
	Stock    StockConfig
}

type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type SessionConfig struct {
	Key  string
	Name string
}

type StockConfig struct {
	LowThreshold int
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Path:        getEnv("DATABASE_PATH", "inventario_web.db"),
			BusyTimeout: getEnvDuration("DATABASE_BUSY_TIMEOUT", 5*time.Second),
		},
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "5001"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Key:  getEnv("SESSION_KEY", "inventario-session-key"),
			Name: getEnv("SESSION_NAME", "inventario"),
		},
		Stock: StockConfig{
			LowThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		fmt.Printf("Warning: invalid duration for %s, using default\n", key)
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Market   MarketConfig
	API      APIConfig
	Logger   LoggerConfig
	Memory   MemoryConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// MarketConfig holds marketplace configuration
type MarketConfig struct {
	TradeLogPath string
}

// APIConfig holds API-specific configuration
type APIConfig struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level string // DEBUG, INFO, WARN, ERROR
}

// MemoryConfig holds in-memory storage configuration
type MemoryConfig struct {
	Enabled bool
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	TLSEnabled   bool
}

var instance *Config

// Load loads configuration from .env file (if exists) and environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Market: MarketConfig{
			TradeLogPath: getEnv("TRADE_LOG_PATH", "trades.log"),
		},
		API: APIConfig{
			MaxBodyBytes:   getEnvInt64("API_MAX_BODY_BYTES", 1<<20),
			AllowedOrigins: getEnvList("API_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		Memory: MemoryConfig{
			Enabled: getEnvBool("MEMORY_ENABLED", true),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DATABASE_ENABLED", false),
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            getEnvInt("DATABASE_PORT", 5432),
			Name:            getEnv("DATABASE_NAME", "valence_market"),
			User:            getEnv("DATABASE_USER", "postgres"),
			Password:        getEnv("DATABASE_PASSWORD", ""),
			MaxConns:        getEnvInt("DATABASE_MAX_CONNECTIONS", 20),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			SSLMode:         getEnv("DATABASE_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			TLSEnabled:   getEnvBool("REDIS_TLS_ENABLED", false),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	instance = cfg
	return cfg, nil
}

// Get returns the singleton config instance
func Get() *Config {
	if instance == nil {
		panic("config not loaded - call config.Load() first")
	}
	return instance
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.Market.TradeLogPath == "" {
		return fmt.Errorf("TRADE_LOG_PATH cannot be empty")
	}

	if c.API.MaxBodyBytes < 1 {
		return fmt.Errorf("API_MAX_BODY_BYTES must be > 0")
	}
	if len(c.API.AllowedOrigins) == 0 {
		return fmt.Errorf("API_ALLOWED_ORIGINS cannot be empty")
	}

	if !c.Memory.Enabled && !c.Database.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("at least one storage layer must be enabled")
	}

	validLevels := map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR")
	}

	return nil
}

// Helper functions to read environment variables with defaults

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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		list := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		if len(list) > 0 {
			return list
		}
	}
	return defaultValue
}

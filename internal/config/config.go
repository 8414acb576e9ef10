package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverCassandra = "cassandra"
	DriverMemory    = "memory"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Store     StoreConfig
	Cassandra CassandraConfig
	Seed      SeedConfig
	Events    EventsConfig
	LogLevel  string
}

type ServerConfig struct {
	Port               string
	Host               string
	ReadTimeout        int
	WriteTimeout       int
	RequestTimeout     int
	ShutdownTimeout    int
	CORSAllowedOrigins []string
}

type AuthConfig struct {
	APIKeys []string // Keys accepted on write routes; empty disables the check
}

type StoreConfig struct {
	Driver string
}

type CassandraConfig struct {
	ContactPoints   []string
	LocalDataCenter string
	Keyspace        string
	Username        string
	Password        string
	Consistency     string
	Timeout         int // seconds
	SlowQueryMillis int
}

type SeedConfig struct {
	Sources   []string
	AWSRegion string
}

type EventsConfig struct {
	AMQPURL string
	Queue   string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first without overriding variables that are
// already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Host:               getEnv("HOST", "0.0.0.0"),
			ReadTimeout:        getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:       getEnvAsInt("WRITE_TIMEOUT", 15),
			RequestTimeout:     getEnvAsInt("REQUEST_TIMEOUT", 60),
			ShutdownTimeout:    getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverCassandra)),
		},
		Cassandra: CassandraConfig{
			ContactPoints:   getEnvAsSlice("CASSANDRA_CONTACT_POINTS", nil),
			LocalDataCenter: getEnv("CASSANDRA_LOCAL_DATA_CENTER", ""),
			Keyspace:        getEnv("CASSANDRA_KEYSPACE", ""),
			Username:        getEnv("CASSANDRA_USERNAME", ""),
			Password:        getEnv("CASSANDRA_PASSWORD", ""),
			Consistency:     getEnv("CASSANDRA_CONSISTENCY", "LOCAL_QUORUM"),
			Timeout:         getEnvAsInt("CASSANDRA_TIMEOUT", 10),
			SlowQueryMillis: getEnvAsInt("CASSANDRA_SLOW_QUERY_MS", 200),
		},
		Seed: SeedConfig{
			Sources:   getEnvAsSlice("SEED_SOURCES", nil),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		},
		Events: EventsConfig{
			AMQPURL: getEnv("AMQP_URL", ""),
			Queue:   getEnv("AMQP_QUEUE", "products.events"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverCassandra:
		if len(c.Cassandra.ContactPoints) == 0 {
			return fmt.Errorf("CASSANDRA_CONTACT_POINTS is required")
		}
		if c.Cassandra.Keyspace == "" {
			return fmt.Errorf("CASSANDRA_KEYSPACE is required")
		}
		if c.Cassandra.Timeout <= 0 {
			return fmt.Errorf("CASSANDRA_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be %s or %s)", c.Store.Driver, DriverCassandra, DriverMemory)
	}

	if c.Events.AMQPURL != "" && c.Events.Queue == "" {
		return fmt.Errorf("AMQP_QUEUE is required when AMQP_URL is set")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

type ServerConfig struct {
	EnvelopeAddr   string
	HTTPPort       string
	HTTPEnabled    bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration // zero keeps a silent client connected forever
	MaxMessageSize int
}

type DatabaseConfig struct {
	Driver          string
	Path            string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	AtomicWrites    bool
	ResetOnStart    bool
}

type MinIOConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			EnvelopeAddr:   getEnvOrDefault("SERVER_ENVELOPE_ADDR", ":7777"),
			HTTPPort:       getEnvOrDefault("SERVER_PORT", "8010"),
			HTTPEnabled:    getBoolOrDefault("SERVER_HTTP_ENABLED", true),
			ReadTimeout:    getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationOrDefault("SERVER_IDLE_TIMEOUT", 0),
			MaxMessageSize: getIntOrDefault("SERVER_MAX_MESSAGE_SIZE", 2048),
		},
		Database: DatabaseConfig{
			Driver:          getEnvOrDefault("DB_DRIVER", DriverSQLite),
			Path:            getEnvOrDefault("DB_PATH", "test.db"),
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:          getEnvOrDefault("DB_NAME", "movie_db"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout:    getDurationOrDefault("DB_QUERY_TIMEOUT", 10*time.Second),
			AtomicWrites:    getBoolOrDefault("DB_ATOMIC_WRITES", false),
			ResetOnStart:    getBoolOrDefault("DB_RESET_ON_START", true),
		},
		MinIO: MinIOConfig{
			Enabled:         getBoolOrDefault("MINIO_ENABLED", false),
			Endpoint:        getEnvOrDefault("AWS_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnvOrDefault("AWS_BUCKET", "movie-snapshots"),
			Region:          getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
			UseSSL:          getBoolOrDefault("AWS_USE_SSL", false),
		},
	}
}

// DSN returns the connection string for the configured driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC connect_timeout=10",
			c.Host,
			c.Port,
			c.User,
			c.Password,
			c.DBName,
			c.SSLMode,
		)
	}
	return c.Path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	if c.Server.MaxMessageSize <= 0 {
		return fmt.Errorf("SERVER_MAX_MESSAGE_SIZE must be positive")
	}
	if c.MinIO.Enabled {
		if c.MinIO.AccessKeyID == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID is required for MinIO")
		}
		if c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("AWS_SECRET_ACCESS_KEY is required for MinIO")
		}
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("AWS_ENDPOINT is required for MinIO")
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

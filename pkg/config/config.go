package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for the fertility-reconciliation service.
type Config struct {
	// Redis configuration (used when StoreBackend == "redis")
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// PostgreSQL configuration (used when StoreBackend == "postgres")
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	PostgresMaxConnections     int
	PostgresMaxIdleConnections int
	PostgresConnMaxLifetime    time.Duration

	// StoreBackend selects the persistence adapter: "memory", "redis", or
	// "postgres".
	StoreBackend string

	// SourceWeightsPath optionally points at a YAML file overriding the
	// default SourceWeights (see internal/fertility.DefaultSourceWeights).
	SourceWeightsPath string

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string
	APIPort     int

	// SharedSecret, when non-empty, is required in the request header
	// named by SharedSecretHeader on every API call. An empty secret
	// admits all requests.
	SharedSecret       string
	SharedSecretHeader string

	// AllowedOrigins lists the origins permitted by CORS preflight
	// responses. "*" permits any origin.
	AllowedOrigins []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,

		PostgresHost:               "localhost",
		PostgresPort:               5432,
		PostgresUser:               "postgres",
		PostgresPassword:           "",
		PostgresDB:                 "postgres",
		PostgresSSLMode:            "disable",
		PostgresMaxConnections:     10,
		PostgresMaxIdleConnections: 5,
		PostgresConnMaxLifetime:    5 * time.Minute,

		StoreBackend:      "memory",
		SourceWeightsPath: "",

		ServiceName: "fertility-api",
		HealthPort:  8080,
		LogLevel:    "info",
		APIPort:     3000,

		SharedSecret:       "",
		SharedSecretHeader: "X-Api-Secret",
		AllowedOrigins:      []string{"*"},
	}
}

// LoadFromEnv loads configuration from environment variables with the
// RECONCILER_ prefix.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("RECONCILER_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("RECONCILER_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("RECONCILER_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("RECONCILER_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	if v := os.Getenv("RECONCILER_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("RECONCILER_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("RECONCILER_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("RECONCILER_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("RECONCILER_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("RECONCILER_POSTGRES_SSLMODE"); v != "" {
		c.PostgresSSLMode = v
	}
	if v := os.Getenv("RECONCILER_POSTGRES_MAX_OPEN_CONNS"); v != "" {
		if maxConns, err := strconv.Atoi(v); err == nil {
			c.PostgresMaxConnections = maxConns
		}
	}
	if v := os.Getenv("RECONCILER_POSTGRES_MAX_IDLE_CONNS"); v != "" {
		if maxIdle, err := strconv.Atoi(v); err == nil {
			c.PostgresMaxIdleConnections = maxIdle
		}
	}
	if v := os.Getenv("RECONCILER_POSTGRES_CONN_MAX_LIFE"); v != "" {
		if duration, err := time.ParseDuration(v); err == nil {
			c.PostgresConnMaxLifetime = duration
		}
	}

	if v := os.Getenv("RECONCILER_STORE_BACKEND"); v != "" {
		c.StoreBackend = v
	}
	if v := os.Getenv("RECONCILER_SOURCE_WEIGHTS_PATH"); v != "" {
		c.SourceWeightsPath = v
	}

	if v := os.Getenv("RECONCILER_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("RECONCILER_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("RECONCILER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RECONCILER_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.APIPort = port
		}
	}

	if v := os.Getenv("RECONCILER_SHARED_SECRET"); v != "" {
		c.SharedSecret = v
	}
	if v := os.Getenv("RECONCILER_SHARED_SECRET_HEADER"); v != "" {
		c.SharedSecretHeader = v
	}
	if v := os.Getenv("RECONCILER_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		c.AllowedOrigins = origins
	}
}

// LoadFromFlags parses command-line flags and overrides config values.
func (c *Config) LoadFromFlags() {
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "PostgreSQL hostname")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "PostgreSQL port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "PostgreSQL username")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "PostgreSQL password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "PostgreSQL database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-sslmode", c.PostgresSSLMode, "PostgreSQL SSL mode")
	pflag.IntVar(&c.PostgresMaxConnections, "postgres-max-conns", c.PostgresMaxConnections, "PostgreSQL max connections")
	pflag.IntVar(&c.PostgresMaxIdleConnections, "postgres-max-idle-conns", c.PostgresMaxIdleConnections, "PostgreSQL max idle connections")
	pflag.DurationVar(&c.PostgresConnMaxLifetime, "postgres-conn-max-life", c.PostgresConnMaxLifetime, "PostgreSQL connection max lifetime")

	pflag.StringVar(&c.StoreBackend, "store-backend", c.StoreBackend, "Persistence backend (memory, redis, postgres)")
	pflag.StringVar(&c.SourceWeightsPath, "source-weights-path", c.SourceWeightsPath, "Path to a YAML file overriding default source weights")

	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	pflag.IntVar(&c.APIPort, "api-port", c.APIPort, "HTTP API port")

	pflag.StringVar(&c.SharedSecret, "shared-secret", c.SharedSecret, "Shared secret required on every API request (empty admits all)")
	pflag.StringVar(&c.SharedSecretHeader, "shared-secret-header", c.SharedSecretHeader, "Header name carrying the shared secret")

	pflag.Parse()
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("health port must be between 1 and 65535")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}

	validBackends := map[string]bool{"memory": true, "redis": true, "postgres": true}
	if !validBackends[c.StoreBackend] {
		return fmt.Errorf("invalid store backend: %s (must be memory, redis, or postgres)", c.StoreBackend)
	}
	if c.StoreBackend == "redis" {
		if c.RedisHost == "" {
			return fmt.Errorf("redis host is required when store-backend is redis")
		}
		if c.RedisPort <= 0 || c.RedisPort > 65535 {
			return fmt.Errorf("redis port must be between 1 and 65535")
		}
	}
	if c.StoreBackend == "postgres" {
		if c.PostgresHost == "" {
			return fmt.Errorf("postgres host is required when store-backend is postgres")
		}
		if c.PostgresPort <= 0 || c.PostgresPort > 65535 {
			return fmt.Errorf("postgres port must be between 1 and 65535")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// RedisAddress returns the full Redis address.
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns a PostgreSQL connection string.
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}

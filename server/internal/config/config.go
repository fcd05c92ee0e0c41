package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cipher   CipherConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig holds database configuration. An empty host keeps the
// keyring in memory only.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Enabled reports whether the keyring should be persisted
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// JWTConfig holds JWT configuration. An empty secret disables auth.
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// CipherConfig holds cipher engine configuration
type CipherConfig struct {
	Workers    int
	DefaultKey string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvInt("SERVER_PORT", 8080),
			RequestTimeout: getEnvDuration("SERVER_REQUEST_TIMEOUT", 5*time.Second),
			MaxBodyBytes:   int64(getEnvInt("SERVER_MAX_BODY_BYTES", 1<<20)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "gostcipher"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TokenTTL: getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Cipher: CipherConfig{
			Workers:    getEnvInt("GOST_WORKERS", 1),
			DefaultKey: getEnv("GOST_DEFAULT_KEY", ""),
		},
		Log: LogConfig{
			Debug: getEnvBool("LOG_DEBUG", false),
		},
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// String returns a string representation of the config
func (c *Config) String() string {
	auth := "disabled"
	if c.JWT.Secret != "" {
		auth = "***"
	}
	database := "disabled (in-memory keyring)"
	if c.Database.Enabled() {
		database = fmt.Sprintf("postgres://%s@%s:%d/%s", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Database)
	}
	defaultKey := "none"
	if c.Cipher.DefaultKey != "" {
		defaultKey = "***"
	}
	return fmt.Sprintf(`
Server: %s:%d (timeout %v, max body %d bytes)
Database: %s
JWT Secret: %s
Cipher Workers: %d
Default Key: %s
Debug Logging: %v`,
		c.Server.Host, c.Server.Port, c.Server.RequestTimeout, c.Server.MaxBodyBytes,
		database,
		auth,
		c.Cipher.Workers,
		defaultKey,
		c.Log.Debug,
	)
}

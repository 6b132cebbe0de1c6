package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionStoreSQL   = "sql"
	SessionStoreRedis = "redis"

	minSecretKeyLength = 32
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string
	Environment     string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	Path         string
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type SessionConfig struct {
	SecretKey string
	TTL       time.Duration
	Store     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	BCryptCost int
}

// LoadConfig reads .env (if any) and the process environment.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite3"),
			Path:         getEnv("DB_PATH", "todolist.db"),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Session: SessionConfig{
			SecretKey: os.Getenv("SECRET_KEY"),
			TTL:       getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Store:     getEnv("SESSION_STORE", SessionStoreSQL),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			BCryptCost: getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Session.SecretKey) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH must be set for sqlite3")
		}
	case "postgres", "mysql":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL must be set for %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Session.Store != SessionStoreSQL && c.Session.Store != SessionStoreRedis {
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Auth.BCryptCost < bcrypt.MinCost || c.Auth.BCryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// DSN returns the data source name for the configured driver.
// SQLite gets foreign key enforcement switched on.
func (c *Config) DSN() string {
	if c.Database.Driver == "sqlite3" {
		return "file:" + c.Database.Path + "?_foreign_keys=on"
	}
	return c.Database.URL
}

func (c *Config) ServerAddr() string {
	return ":" + c.Server.Port
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

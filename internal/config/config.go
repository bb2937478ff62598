package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	POS         POSConfig
	RateLimit   RateLimitConfig
	CORSOrigins []string
}

type ServerConfig struct {
	Port    string
	Env     string
	LogFile string
}

type StoreConfig struct {
	Driver   string
	BoltPath string
	PageSize int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

// RedisConfig is optional; an empty Host disables the login rate limit.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type JWTConfig struct {
	Secret string
}

type POSConfig struct {
	TaxRate      float64
	VerifyTotals bool
}

type RateLimitConfig struct {
	LoginAttempts int
	Window        time.Duration
}

// IsProduction reports whether SERVER_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Load reads configuration from the environment. Call godotenv first to pick
// up a local .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("STORE_BOLT_PATH", "zenith-pos.db")
	v.SetDefault("STORE_PAGE_SIZE", 100)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("POS_TAX_RATE", 0.08)
	v.SetDefault("TRANSACTIONS_VERIFY_TOTALS", false)

	cfg := &Config{
		Server: ServerConfig{
			Port:    v.GetString("SERVER_PORT"),
			Env:     v.GetString("SERVER_ENV"),
			LogFile: v.GetString("LOG_FILE"),
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(v.GetString("STORE_DRIVER")),
			BoltPath: v.GetString("STORE_BOLT_PATH"),
			PageSize: v.GetInt("STORE_PAGE_SIZE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		POS: POSConfig{
			TaxRate:      v.GetFloat64("POS_TAX_RATE"),
			VerifyTotals: v.GetBool("TRANSACTIONS_VERIFY_TOTALS"),
		},
		RateLimit: RateLimitConfig{
			LoginAttempts: v.GetInt("LOGIN_RATE_LIMIT"),
			Window:        time.Duration(v.GetInt("LOGIN_RATE_WINDOW_SECONDS")) * time.Second,
		},
		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverBolt, DriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverBolt && c.Store.BoltPath == "" {
		return fmt.Errorf("STORE_BOLT_PATH is required for the bolt driver")
	}
	if c.Store.Driver == DriverPostgres && c.Database.Database == "" {
		return fmt.Errorf("DB_DATABASE is required for the postgres driver")
	}
	if c.POS.TaxRate < 0 {
		return fmt.Errorf("POS_TAX_RATE must not be negative")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWT.Secret == "dev-secret-change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

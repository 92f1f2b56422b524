// Package config loads application configuration from an optional YAML
// file and STATUSDASH_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STATUSDASH_"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Log       LogConfig       `koanf:"log"`
	CORS      CORSConfig      `koanf:"cors"`
	JWT       JWTConfig       `koanf:"jwt"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Uploads   UploadsConfig   `koanf:"uploads"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// RedisConfig holds cache server settings.
type RedisConfig struct {
	Addr            string        `koanf:"addr"`
	Password        string        `koanf:"password"`
	DB              int           `koanf:"db"`
	DialTimeout     time.Duration `koanf:"dial_timeout"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	PoolSize        int           `koanf:"pool_size"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// JWTConfig holds token settings for the admin API.
type JWTConfig struct {
	SecretKey           string        `koanf:"secret_key"`
	AccessTokenDuration time.Duration `koanf:"access_token_duration"`
}

// SMTPConfig holds the outbound mail relay. The from-address, pager
// target and message texts are admin-managed settings in the database.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
}

// UploadsConfig holds the base directory for report screenshots.
type UploadsConfig struct {
	Dir string `koanf:"dir"`
}

// RateLimitConfig throttles the public report-intake endpoint.
type RateLimitConfig struct {
	ReportsPerMinute int `koanf:"reports_per_minute"`
	ReportsBurst     int `koanf:"reports_burst"`
}

// BootstrapConfig seeds the first admin account when the users table
// is empty. Bootstrap is skipped while the password is unset.
type BootstrapConfig struct {
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`
}

// Load reads configuration from the given YAML file (skipped when the
// path is empty or the file does not exist) and from environment
// variables, e.g. STATUSDASH_SERVER_PORT=8080.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// The first underscore separates the section from the key, so
	// STATUSDASH_DATABASE_MAX_OPEN_CONNS maps to database.max_open_conns.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(s, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 5,
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			DialTimeout:     5 * time.Second,
			ReadTimeout:     3 * time.Second,
			WriteTimeout:    3 * time.Second,
			PoolSize:        10,
			ConnectAttempts: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		JWT: JWTConfig{
			AccessTokenDuration: 15 * time.Minute,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Uploads: UploadsConfig{
			Dir: "uploads",
		},
		RateLimit: RateLimitConfig{
			ReportsPerMinute: 5,
			ReportsBurst:     3,
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: "admin",
		},
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required")
	}
	return nil
}

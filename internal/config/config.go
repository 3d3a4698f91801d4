// Package config loads service configuration from the environment, with
// optional .env files for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/Sternrassler/paddle-marketplace/pkg/logging"
	"github.com/Sternrassler/paddle-marketplace/pkg/paddle"
	"github.com/Sternrassler/paddle-marketplace/pkg/ratelimit"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Paddle PaddleConfig `envPrefix:"PADDLE_"`
	Server ServerConfig `envPrefix:"SERVER_"`
	Redis  RedisConfig  `envPrefix:"REDIS_"`
	Log    LogConfig    `envPrefix:"LOG_"`
}

type PaddleConfig struct {
	APIKey            string        `env:"API_KEY" validate:"required"`
	APIURL            string        `env:"API_URL" envDefault:"https://api.paddle.com" validate:"required,url"`
	PageSize          int           `env:"PAGE_SIZE" envDefault:"200" validate:"min=1,max=200"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND" envDefault:"0" validate:"gte=0"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"0s" validate:"gte=0"`
}

type ServerConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080" validate:"required,numeric"`
}

type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0" validate:"gte=0"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"0s" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Pretty bool   `env:"PRETTY" envDefault:"false"`
}

// Load reads .env files into the process environment without overriding
// variables already set, then parses and validates the configuration.
// With no files given, a missing ./.env is ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// PaddleClient returns the API client configuration.
func (c *Config) PaddleClient() paddle.Config {
	return paddle.Config{
		APIKey:   c.Paddle.APIKey,
		BaseURL:  c.Paddle.APIURL,
		PageSize: c.Paddle.PageSize,
		Timeout:  c.Paddle.Timeout,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: c.Paddle.RequestsPerSecond,
			Burst:             1,
		},
	}
}

// Logging returns the logger configuration. The level was validated by Load.
func (c *Config) Logging() logging.Config {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.Config{
		Level:   level,
		Pretty:  c.Log.Pretty,
		Output:  os.Stderr,
		Service: "paddle-marketplace",
	}
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// CacheEnabled reports whether listing snapshots should be cached in Redis.
func (r RedisConfig) CacheEnabled() bool {
	return r.Addr != "" && r.CacheTTL > 0
}

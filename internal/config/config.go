package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "touservice/libs/config"
)

// Config defines tou-service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"TOU_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"TOU_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"TOU_REDIS_ADDR"`
		Password string `yaml:"password" env:"TOU_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"TOU_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"TOU_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret       string `yaml:"jwtSecret" env:"TOU_JWT_SECRET"`
		APIKeyHash      string `yaml:"apiKeyHash" env:"TOU_API_KEY_HASH"`
		TokenTTLMinutes int    `yaml:"tokenTtlMinutes" env:"TOU_TOKEN_TTL_MINUTES"`
	} `yaml:"auth"`
	Dev struct {
		SeedEndpoint bool `yaml:"seedEndpoint" env:"TOU_DEV_SEED_ENDPOINT"`
	} `yaml:"dev"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 30
	cfg.Auth.TokenTTLMinutes = 60

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if strings.TrimSpace(cfg.Auth.APIKeyHash) == "" {
		return nil, errors.New("config: api key hash required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// CurrentPeriodTTL returns the cache ttl as duration. It stays short because
// cached answers go stale at period boundaries.
func (c *Config) CurrentPeriodTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// TokenTTL returns the JWT lifetime as duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/logger"
)

// Config holds the runtime settings of the prediction service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Models  ModelsConfig  `mapstructure:"models"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Predict PredictConfig `mapstructure:"predict"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ModelsConfig points at the directory holding the trained artifacts.
type ModelsConfig struct {
	Dir string `mapstructure:"dir"`
}

// CatalogConfig selects the reference dataset. A non-empty DSN switches the
// catalog from the CSV file to a postgres table.
type CatalogConfig struct {
	Dataset string `mapstructure:"dataset"`
	DSN     string `mapstructure:"dsn"`
	Table   string `mapstructure:"table"`
}

type PredictConfig struct {
	Currency string `mapstructure:"currency"`
	MinYear  int    `mapstructure:"min_year"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig enables the redis result cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Models.Dir == "" {
		errs = append(errs, errors.New("models.dir is required"))
	}
	if c.Catalog.DSN != "" && c.Catalog.Table == "" {
		errs = append(errs, errors.New("catalog.table is required with catalog.dsn"))
	}
	if c.Predict.MinYear <= 0 {
		errs = append(errs, fmt.Errorf("predict.min_year must be positive, got %d", c.Predict.MinYear))
	}
	if !validLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	return errors.Join(errs...)
}

func validLevel(level string) bool {
	for _, l := range logger.Levels {
		if l == level {
			return true
		}
	}
	return false
}

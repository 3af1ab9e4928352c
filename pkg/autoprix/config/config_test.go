package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "pkl-files", cfg.Models.Dir)
	assert.Equal(t, "data/avito_cars_clean.csv", cfg.Catalog.Dataset)
	assert.Equal(t, "DH", cfg.Predict.Currency)
	assert.Equal(t, 1970, cfg.Predict.MinYear)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Cache.RedisAddr)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "autoprix.yaml")
	content := []byte(`
models:
  dir: /srv/models
predict:
  currency: MAD
log:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("AUTOPRIX_CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/models", cfg.Models.Dir)
	assert.Equal(t, "MAD", cfg.Predict.Currency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(viper.New(), "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Address: ":8080", ReadTimeout: time.Second, WriteTimeout: time.Second},
			Models:  ModelsConfig{Dir: "pkl-files"},
			Catalog: CatalogConfig{Dataset: "cars.csv", Table: "listings"},
			Predict: PredictConfig{Currency: "DH", MinYear: 1970},
			Log:     LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *Config) {}},
		{name: "NoAddress", mutate: func(c *Config) { c.Server.Address = "" }, wantErr: true},
		{name: "ZeroTimeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: true},
		{name: "NoModelsDir", mutate: func(c *Config) { c.Models.Dir = "" }, wantErr: true},
		{name: "DSNWithoutTable", mutate: func(c *Config) { c.Catalog.DSN = "postgres://x"; c.Catalog.Table = "" }, wantErr: true},
		{name: "BadLevel", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: true},
		{name: "BadFormat", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "CacheWithoutTTL", mutate: func(c *Config) { c.Cache.RedisAddr = "localhost:6379" }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad_RepoConfigs(t *testing.T) {
	cfg, err := Load(".", "dev")
	require.NoError(t, err)

	assert.Equal(t, "shop-api", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Catalog.LoadDelay)
	assert.InDelta(t, 0.10, cfg.Checkout.TaxRate, 1e-9)
	assert.Equal(t, "order.status.changed", cfg.Kafka.Topic)
	assert.Equal(t, time.Hour, cfg.Security.TTL)
}

func TestLoad_StagingIsInfra(t *testing.T) {
	cfg, err := Load(".", "staging")
	require.NoError(t, err)
	assert.Equal(t, DriverInfra, cfg.Storage.Driver)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "app:\n  http_addr: \":8080\"\nsecurity:\n  jwt_secret: s\n")

	t.Setenv("SHOPAPI_APP__HTTP_ADDR", ":9999")
	t.Setenv("SHOPAPI_CHECKOUT__CURRENCY", "EUR")

	cfg, err := Load(dir, "missing-env")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.App.HTTPAddr)
	assert.Equal(t, "EUR", cfg.Checkout.Currency)
	// defaults fill the rest
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "./logs/app.log", cfg.App.LogFile)
}

func TestLoad_MissingBase(t *testing.T) {
	_, err := Load(t.TempDir(), "dev")
	assert.ErrorContains(t, err, "load base")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.App.HTTPAddr = ":8080"
		c.Security.JWTSecret = "s"
		c.Storage.Driver = DriverMemory
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory ok", func(*Config) {}, ""},
		{"no addr", func(c *Config) { c.App.HTTPAddr = "" }, "http_addr"},
		{"no secret", func(c *Config) { c.Security.JWTSecret = "" }, "jwt_secret"},
		{"negative tax", func(c *Config) { c.Checkout.TaxRate = -0.1 }, "tax_rate"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "disk" }, "unknown"},
		{"infra needs mysql", func(c *Config) { c.Storage.Driver = DriverInfra }, "mysql.dsn"},
		{"infra needs kafka", func(c *Config) {
			c.Storage.Driver = DriverInfra
			c.MySQL.DSN = "dsn"
			c.Redis.Addr = "r:6379"
			c.Rabbit.URL = "amqp://"
		}, "kafka.brokers"},
		{"infra ok", func(c *Config) {
			c.Storage.Driver = DriverInfra
			c.MySQL.DSN = "dsn"
			c.Redis.Addr = "r:6379"
			c.Rabbit.URL = "amqp://"
			c.Kafka.Brokers = []string{"k:9092"}
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 1000, cfg.Cache.Size)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.False(t, cfg.Database.Enabled)
		assert.False(t, cfg.ProviderEnabled())
		assert.Empty(t, cfg.Kafka.Brokers)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		t.Setenv("PORT", "9090")
		t.Setenv("RATE_LIMIT", "50")
		t.Setenv("RATE_WINDOW", "30s")
		t.Setenv("CACHE_TTL", "10m")
		t.Setenv("AUTH_ENABLED", "true")
		t.Setenv("API_KEYS", "storefront:key1, backoffice:key2")
		t.Setenv("PROVIDER_BASE_URL", "https://pricing.example.com")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
		t.Setenv("CORS_ORIGINS", "https://shop.example.com")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Auth.Enabled)
		assert.Equal(t, map[string]string{"storefront": "key1", "backoffice": "key2"}, cfg.Auth.APIKeys)
		assert.True(t, cfg.ProviderEnabled())
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, []string{"https://shop.example.com"}, cfg.Server.CORSOrigins)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		t.Setenv("RATE_LIMIT", "invalid")
		t.Setenv("AUTH_ENABLED", "invalid")
		t.Setenv("RATE_WINDOW", "invalid")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.False(t, cfg.Auth.Enabled)
	})

	t.Run("file overlays defaults and env wins", func(t *testing.T) {
		os.Clearenv()
		t.Setenv(ConfigFileEnv, writeConfigFile(t, `
server:
  port: "7070"
  search_timeout: 5s
database:
  enabled: true
  name: offers_test
provider:
  base_url: http://provider.local
  max_retries: 4
redis:
  addr: localhost:6379
`))
		t.Setenv("PROVIDER_MAX_RETRIES", "1")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.SearchTimeout)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, "offers_test", cfg.Database.DatabaseName)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
		assert.Equal(t, "http://provider.local", cfg.Provider.BaseURL)
		assert.Equal(t, 1, cfg.Provider.MaxRetries)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, "fare-offer:", cfg.Redis.Prefix)
	})

	t.Run("missing file", func(t *testing.T) {
		os.Clearenv()
		t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := Load()

		assert.ErrorContains(t, err, "failed to read config")
	})

	t.Run("malformed file", func(t *testing.T) {
		os.Clearenv()
		t.Setenv(ConfigFileEnv, writeConfigFile(t, "server: [unclosed"))

		_, err := Load()

		assert.ErrorContains(t, err, "failed to parse config")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port"},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }, wantErr: "rate limit"},
		{name: "rate limit without window", mutate: func(c *Config) { c.Server.RateWindow = 0 }, wantErr: "rate window"},
		{name: "auth without credentials", mutate: func(c *Config) { c.Auth.Enabled = true }, wantErr: "no API keys"},
		{
			name: "auth with jwt secret",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.JWTSecret = "s3cret"
			},
		},
		{
			name: "kafka without topic",
			mutate: func(c *Config) {
				c.Kafka.Brokers = []string{"kafka:9092"}
				c.Kafka.Topic = ""
			},
			wantErr: "kafka topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		input string
		want  map[string]string
	}{
		{input: "a:1,b:2", want: map[string]string{"a": "1", "b": "2"}},
		{input: "bare", want: map[string]string{"client-1": "bare"}},
		{input: " , a:1 ,:x, b: ", want: map[string]string{"a": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAPIKeys(tt.input))
		})
	}
}

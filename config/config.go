// Package config loads the fare offer service configuration.
//
// Values come from built-in defaults, then an optional YAML file named by
// CONFIG_FILE, then environment variables. Later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable holding the YAML file path.
const ConfigFileEnv = "CONFIG_FILE"

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	RateLimit       int           `yaml:"rate_limit"`
	RateWindow      time.Duration `yaml:"rate_window"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	SwaggerUser     string        `yaml:"swagger_user"`
	SwaggerPass     string        `yaml:"swagger_pass"`
	SearchTimeout   time.Duration `yaml:"search_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CacheConfig sizes the in-memory caches used when Redis is not configured.
type CacheConfig struct {
	Size           int           `yaml:"size"`
	Shards         int           `yaml:"shards"`
	TTL            time.Duration `yaml:"ttl"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

// AuthConfig holds caller authentication settings. When JWTSecret is set
// bearer tokens are required and API keys are ignored.
type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// APIKeys maps client names to keys.
	APIKeys     map[string]string `yaml:"api_keys"`
	JWTSecret   string            `yaml:"jwt_secret"`
	JWTIssuer   string            `yaml:"jwt_issuer"`
	JWTAudience string            `yaml:"jwt_audience"`
	JWTLeeway   time.Duration     `yaml:"jwt_leeway"`
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	Enabled          bool          `yaml:"enabled"`
	URI              string        `yaml:"uri"`
	DatabaseName     string        `yaml:"name"`
	LogsTTL          time.Duration `yaml:"logs_ttl"`
	PayloadRetention time.Duration `yaml:"payload_retention"`
	// RequestLogs persists request logs through the async log sink.
	RequestLogs bool `yaml:"request_logs"`

	CircuitBreakerFailureThreshold int           `yaml:"circuit_breaker_failure_threshold"`
	CircuitBreakerSuccessThreshold int           `yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `yaml:"circuit_breaker_timeout"`
}

// ProviderConfig holds the pricing provider connection settings. An empty
// BaseURL disables provider search.
type ProviderConfig struct {
	BaseURL        string        `yaml:"base_url"`
	SearchPath     string        `yaml:"search_path"`
	APIKey         string        `yaml:"api_key"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
}

// RedisConfig enables the shared Redis cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// KafkaConfig enables event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			RateLimit:       100,
			RateWindow:      time.Minute,
			SearchTimeout:   30 * time.Second,
			MaxBodyBytes:    8 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			Size:           1000,
			Shards:         16,
			TTL:            5 * time.Minute,
			IdempotencyTTL: 24 * time.Hour,
		},
		Database: DatabaseConfig{
			URI:                            "mongodb://localhost:27017",
			DatabaseName:                   "fare_offers",
			LogsTTL:                        30 * 24 * time.Hour,
			PayloadRetention:               7 * 24 * time.Hour,
			RequestLogs:                    true,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Provider: ProviderConfig{
			SearchPath:     "/v1/pricing/search",
			Timeout:        10 * time.Second,
			MaxRetries:     2,
			RetryBaseDelay: 200 * time.Millisecond,
		},
		Redis: RedisConfig{Prefix: "fare-offer:"},
		Kafka: KafkaConfig{
			Topic:        "fare-offer-events",
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Load builds the configuration from defaults, the optional CONFIG_FILE and
// the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg, keeping values the file omits.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	s := &cfg.Server
	s.Port = getEnv("PORT", s.Port)
	s.RateLimit = getEnvInt("RATE_LIMIT", s.RateLimit)
	s.RateWindow = getEnvDuration("RATE_WINDOW", s.RateWindow)
	s.CORSOrigins = getEnvList("CORS_ORIGINS", s.CORSOrigins)
	s.SwaggerUser = getEnv("SWAGGER_USER", s.SwaggerUser)
	s.SwaggerPass = getEnv("SWAGGER_PASS", s.SwaggerPass)
	s.SearchTimeout = getEnvDuration("SEARCH_TIMEOUT", s.SearchTimeout)
	s.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(s.MaxBodyBytes)))
	s.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvBool("LOG_PRETTY", cfg.Log.Pretty)

	c := &cfg.Cache
	c.Size = getEnvInt("CACHE_SIZE", c.Size)
	c.Shards = getEnvInt("CACHE_SHARDS", c.Shards)
	c.TTL = getEnvDuration("CACHE_TTL", c.TTL)
	c.IdempotencyTTL = getEnvDuration("IDEMPOTENCY_TTL", c.IdempotencyTTL)

	a := &cfg.Auth
	a.Enabled = getEnvBool("AUTH_ENABLED", a.Enabled)
	if v := os.Getenv("API_KEYS"); v != "" {
		a.APIKeys = parseAPIKeys(v)
	}
	a.JWTSecret = getEnv("JWT_SECRET", a.JWTSecret)
	a.JWTIssuer = getEnv("JWT_ISSUER", a.JWTIssuer)
	a.JWTAudience = getEnv("JWT_AUDIENCE", a.JWTAudience)
	a.JWTLeeway = getEnvDuration("JWT_LEEWAY", a.JWTLeeway)

	d := &cfg.Database
	d.Enabled = getEnvBool("MONGODB_ENABLED", d.Enabled)
	d.URI = getEnv("MONGODB_URI", d.URI)
	d.DatabaseName = getEnv("MONGODB_DATABASE", d.DatabaseName)
	d.LogsTTL = getEnvDuration("MONGODB_LOGS_TTL", d.LogsTTL)
	d.PayloadRetention = getEnvDuration("MONGODB_PAYLOAD_RETENTION", d.PayloadRetention)
	d.RequestLogs = getEnvBool("MONGODB_REQUEST_LOGS", d.RequestLogs)
	d.CircuitBreakerFailureThreshold = getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", d.CircuitBreakerFailureThreshold)
	d.CircuitBreakerSuccessThreshold = getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", d.CircuitBreakerSuccessThreshold)
	d.CircuitBreakerTimeout = getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", d.CircuitBreakerTimeout)

	p := &cfg.Provider
	p.BaseURL = getEnv("PROVIDER_BASE_URL", p.BaseURL)
	p.SearchPath = getEnv("PROVIDER_SEARCH_PATH", p.SearchPath)
	p.APIKey = getEnv("PROVIDER_API_KEY", p.APIKey)
	p.Timeout = getEnvDuration("PROVIDER_TIMEOUT", p.Timeout)
	p.MaxRetries = getEnvInt("PROVIDER_MAX_RETRIES", p.MaxRetries)
	p.RetryBaseDelay = getEnvDuration("PROVIDER_RETRY_BASE_DELAY", p.RetryBaseDelay)

	r := &cfg.Redis
	r.Addr = getEnv("REDIS_ADDR", r.Addr)
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.DB = getEnvInt("REDIS_DB", r.DB)
	r.Prefix = getEnv("REDIS_PREFIX", r.Prefix)

	k := &cfg.Kafka
	k.Brokers = getEnvList("KAFKA_BROKERS", k.Brokers)
	k.Topic = getEnv("KAFKA_TOPIC", k.Topic)
	k.BatchTimeout = getEnvDuration("KAFKA_BATCH_TIMEOUT", k.BatchTimeout)
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow <= 0 {
		errs = append(errs, errors.New("rate window must be positive"))
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, errors.New("auth is enabled but no API keys or JWT secret are set"))
	}
	if c.Database.Enabled && c.Database.URI == "" {
		errs = append(errs, errors.New("mongodb uri is required when the database is enabled"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka topic is required when brokers are set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ProviderEnabled reports whether provider search is configured.
func (c Config) ProviderEnabled() bool {
	return c.Provider.BaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var result []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parseAPIKeys reads "name:key" pairs. A bare key is named after its position.
func parseAPIKeys(s string) map[string]string {
	result := make(map[string]string)
	i := 0
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i++
		name, key, ok := strings.Cut(part, ":")
		if !ok {
			name, key = "client-"+strconv.Itoa(i), part
		}
		if name = strings.TrimSpace(name); name != "" && strings.TrimSpace(key) != "" {
			result[name] = strings.TrimSpace(key)
		}
	}
	return result
}

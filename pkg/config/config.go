// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Server, Postgres, Kafka, Redis, Store, Resolver, Gateway, etc.).
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Store     StoreConfig     `yaml:"store"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	WordEvents      string `yaml:"wordEvents"`
	AnalyticsEvents string `yaml:"analyticsEvents"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// StoreConfig selects the key store backing the dictionary. The memory
// backend is seeded from SeedFile and is meant for development and tests.
type StoreConfig struct {
	Backend  string `yaml:"backend"`
	SeedFile string `yaml:"seedFile"`
}

// Alternate-language estimate policies.
const (
	EstimatesMerged = "merged"
	EstimatesTop1   = "top1"
)

// ResolverConfig tunes word resolution: similarity floor, estimate policy,
// per-store-access timeout and the store circuit breaker.
type ResolverConfig struct {
	SimilarityThreshold float64       `yaml:"similarityThreshold"`
	StoreTimeout        time.Duration `yaml:"storeTimeout"`
	AlternateEstimates  string        `yaml:"alternateEstimates"`
	MaxEstimates        int           `yaml:"maxEstimates"`
	MergeConcurrency    int           `yaml:"mergeConcurrency"`
	BucketCacheSize     int           `yaml:"bucketCacheSize"`
	RejectMixedScript   bool          `yaml:"rejectMixedScript"`
	BreakerFailures     int           `yaml:"breakerFailures"`
	BreakerReset        time.Duration `yaml:"breakerReset"`
}

// GatewayConfig holds the API gateway port, upstream service URLs and the
// per-client request budget (requests per minute). X-Forwarded-For is only
// honoured from TrustedProxies (addresses or CIDR prefixes).
type GatewayConfig struct {
	Port           int      `yaml:"port"`
	SearcherURL    string   `yaml:"searcherUrl"`
	IngestionURL   string   `yaml:"ingestionUrl"`
	AnalyticsURL   string   `yaml:"analyticsUrl"`
	RateLimit      int      `yaml:"rateLimit"`
	TrustedProxies []string `yaml:"trustedProxies"`
}

// AnalyticsConfig controls the analytics service.
type AnalyticsConfig struct {
	SnapshotInterval time.Duration `yaml:"snapshotInterval"`
	BufferSize       int           `yaml:"bufferSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig controls span logging for lookups.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values, or an error if the result does not validate.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "dictionary",
			User:            "dictionary",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "dictionary-group",
			Topics: KafkaTopics{
				WordEvents:      "word-events",
				AnalyticsEvents: "lookup-analytics",
			},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 5 * time.Minute,
		},
		Store: StoreConfig{
			Backend: BackendPostgres,
		},
		Resolver: ResolverConfig{
			SimilarityThreshold: 0.33,
			StoreTimeout:        2 * time.Second,
			AlternateEstimates:  EstimatesMerged,
			MaxEstimates:        25,
			MergeConcurrency:    4,
			BucketCacheSize:     256,
			RejectMixedScript:   true,
			BreakerFailures:     5,
			BreakerReset:        30 * time.Second,
		},
		Gateway: GatewayConfig{
			Port:         8082,
			SearcherURL:  "http://localhost:8080",
			IngestionURL: "http://localhost:8081",
			AnalyticsURL: "http://localhost:8083",
			RateLimit:    120,
		},
		Analytics: AnalyticsConfig{
			SnapshotInterval: time.Minute,
			BufferSize:       10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// Validate reports configuration values the services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Resolver.SimilarityThreshold <= 0 || c.Resolver.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("resolver.similarityThreshold must be in (0, 1], got %v", c.Resolver.SimilarityThreshold))
	}
	switch c.Resolver.AlternateEstimates {
	case EstimatesMerged, EstimatesTop1:
	default:
		errs = append(errs, fmt.Errorf("resolver.alternateEstimates must be %q or %q, got %q", EstimatesMerged, EstimatesTop1, c.Resolver.AlternateEstimates))
	}
	if c.Resolver.MaxEstimates < 0 {
		errs = append(errs, fmt.Errorf("resolver.maxEstimates must not be negative"))
	}
	if c.Resolver.BucketCacheSize < 0 {
		errs = append(errs, fmt.Errorf("resolver.bucketCacheSize must not be negative"))
	}
	for _, p := range c.Gateway.TrustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			errs = append(errs, fmt.Errorf("gateway.trustedProxies: %q is neither an address nor a CIDR prefix", p))
		}
	}
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("store.backend must be %q or %q, got %q", BackendMemory, BackendPostgres, c.Store.Backend))
	}
	return errors.Join(errs...)
}

// applyEnvOverrides reads TD_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TD_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("TD_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("TD_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("TD_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("TD_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("TD_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("TD_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TD_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TD_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TD_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("TD_STORE_SEED_FILE"); v != "" {
		cfg.Store.SeedFile = v
	}
	if v := os.Getenv("TD_RESOLVER_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Resolver.SimilarityThreshold = f
		}
	}
	if v := os.Getenv("TD_RESOLVER_STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Resolver.StoreTimeout = d
		}
	}
	if v := os.Getenv("TD_RESOLVER_ALTERNATE_ESTIMATES"); v != "" {
		cfg.Resolver.AlternateEstimates = v
	}
	if v := os.Getenv("TD_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TD_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TD_GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("TD_GATEWAY_SEARCHER_URL"); v != "" {
		cfg.Gateway.SearcherURL = v
	}
	if v := os.Getenv("TD_GATEWAY_INGESTION_URL"); v != "" {
		cfg.Gateway.IngestionURL = v
	}
	if v := os.Getenv("TD_GATEWAY_ANALYTICS_URL"); v != "" {
		cfg.Gateway.AnalyticsURL = v
	}
	if v := os.Getenv("TD_GATEWAY_TRUSTED_PROXIES"); v != "" {
		cfg.Gateway.TrustedProxies = strings.Split(v, ",")
	}
}

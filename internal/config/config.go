// Package config loads battlebrain settings from an optional YAML file and
// BATTLEBRAIN_* environment variables. Environment values win over the file;
// both win over the defaults.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/battlebrain/internal/errors"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "BATTLEBRAIN_"

// Storage drivers
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Catalog providers
const (
	ProviderBattleBrain = "battlebrain"
	ProviderDND5e       = "dnd5e"
)

// Config is the full application configuration
type Config struct {
	LogLevel  string          `yaml:"log_level" env:"LOG_LEVEL"`
	Catalog   CatalogConfig   `yaml:"catalog" envPrefix:"CATALOG_"`
	Predictor PredictorConfig `yaml:"predictor" envPrefix:"PREDICTOR_"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Builder   BuilderConfig   `yaml:"builder" envPrefix:"BUILDER_"`
}

// CatalogConfig selects and configures the monster catalog
type CatalogConfig struct {
	// Provider is battlebrain (the backend's /open5e endpoints) or dnd5e
	// (the SRD API directly)
	Provider string        `yaml:"provider" env:"PROVIDER"`
	BaseURL  string        `yaml:"base_url" env:"BASE_URL"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
}

// PredictorConfig configures the prediction service client
type PredictorConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// StorageConfig selects where session slots are kept
type StorageConfig struct {
	Driver    string        `yaml:"driver" env:"DRIVER"`
	Path      string        `yaml:"path" env:"PATH"`
	RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	Namespace string        `yaml:"namespace" env:"NAMESPACE"`
	TTL       time.Duration `yaml:"ttl" env:"TTL"`
}

// BuilderConfig tunes the interactive timings of the encounter builder
type BuilderConfig struct {
	SuggestDebounce time.Duration `yaml:"suggest_debounce" env:"SUGGEST_DEBOUNCE"`
	BlurGrace       time.Duration `yaml:"blur_grace" env:"BLUR_GRACE"`
	LatencyFloor    time.Duration `yaml:"latency_floor" env:"LATENCY_FLOOR"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Catalog: CatalogConfig{
			Provider: ProviderBattleBrain,
			BaseURL:  "http://127.0.0.1:8000",
			Timeout:  10 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Predictor: PredictorConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver:    StorageSQLite,
			Path:      "battlebrain.db",
			RedisAddr: "127.0.0.1:6379",
			Namespace: "default",
		},
		Builder: BuilderConfig{
			SuggestDebounce: 250 * time.Millisecond,
			BlurGrace:       150 * time.Millisecond,
			LatencyFloor:    time.Second,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies the
// process environment and validates the result
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromReader(nil, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config %q", path)
	}
	defer f.Close()

	return LoadFromReader(f, nil)
}

// LoadFromReader decodes YAML from r (nil for none) over the defaults, then
// applies environ (nil for the process environment) and validates
func LoadFromReader(r io.Reader, environ map[string]string) (*Config, error) {
	cfg := Default()

	if r != nil {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config yaml")
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is coherent
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("log_level", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)

	errors.ValidateEnum("catalog.provider", c.Catalog.Provider, []string{ProviderBattleBrain, ProviderDND5e}, vb)
	if c.Catalog.Provider == ProviderBattleBrain {
		errors.ValidateRequired("catalog.base_url", c.Catalog.BaseURL, vb)
	}
	nonNegative(vb, "catalog.timeout", c.Catalog.Timeout)
	nonNegative(vb, "catalog.cache_ttl", c.Catalog.CacheTTL)

	errors.ValidateRequired("predictor.base_url", c.Predictor.BaseURL, vb)
	nonNegative(vb, "predictor.timeout", c.Predictor.Timeout)

	errors.ValidateEnum("storage.driver", c.Storage.Driver, []string{StorageMemory, StorageSQLite, StorageRedis}, vb)
	switch c.Storage.Driver {
	case StorageSQLite:
		errors.ValidateRequired("storage.path", c.Storage.Path, vb)
	case StorageRedis:
		errors.ValidateRequired("storage.redis_addr", c.Storage.RedisAddr, vb)
	}
	nonNegative(vb, "storage.ttl", c.Storage.TTL)

	nonNegative(vb, "builder.suggest_debounce", c.Builder.SuggestDebounce)
	nonNegative(vb, "builder.blur_grace", c.Builder.BlurGrace)
	nonNegative(vb, "builder.latency_floor", c.Builder.LatencyFloor)

	return vb.Build()
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func nonNegative(vb *errors.ValidationBuilder, field string, d time.Duration) {
	if d < 0 {
		vb.Field(field, "must not be negative")
	}
}

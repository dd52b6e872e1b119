package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/battlebrain/internal/config"
	"github.com/KirkDiggler/battlebrain/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.LoadFromReader(nil, map[string]string{})

	s.Require().NoError(err)
	s.Equal(config.Default(), cfg)
	s.Equal(250*time.Millisecond, cfg.Builder.SuggestDebounce)
	s.Equal(150*time.Millisecond, cfg.Builder.BlurGrace)
	s.Equal(time.Second, cfg.Builder.LatencyFloor)
	s.Equal(config.StorageSQLite, cfg.Storage.Driver)
	s.Equal(slog.LevelInfo, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestYAMLOverridesDefaults() {
	yml := `
log_level: debug
catalog:
  provider: dnd5e
  cache_ttl: 1h
storage:
  driver: redis
  redis_addr: redis:6379
  ttl: 30m
builder:
  latency_floor: 500ms
`
	cfg, err := config.LoadFromReader(strings.NewReader(yml), map[string]string{})

	s.Require().NoError(err)
	s.Equal(slog.LevelDebug, cfg.SlogLevel())
	s.Equal(config.ProviderDND5e, cfg.Catalog.Provider)
	s.Equal(time.Hour, cfg.Catalog.CacheTTL)
	s.Equal("redis:6379", cfg.Storage.RedisAddr)
	s.Equal(30*time.Minute, cfg.Storage.TTL)
	s.Equal(500*time.Millisecond, cfg.Builder.LatencyFloor)
	s.Equal(250*time.Millisecond, cfg.Builder.SuggestDebounce)
	s.Equal("http://127.0.0.1:8000", cfg.Predictor.BaseURL)
}

func (s *ConfigTestSuite) TestEnvironmentWinsOverYAML() {
	yml := "predictor:\n  base_url: http://file:8000\n"
	environ := map[string]string{
		"BATTLEBRAIN_PREDICTOR_BASE_URL":       "http://env:9000",
		"BATTLEBRAIN_BUILDER_SUGGEST_DEBOUNCE": "100ms",
		"BATTLEBRAIN_STORAGE_DRIVER":           "memory",
		"PREDICTOR_BASE_URL":                   "http://unprefixed",
	}

	cfg, err := config.LoadFromReader(strings.NewReader(yml), environ)

	s.Require().NoError(err)
	s.Equal("http://env:9000", cfg.Predictor.BaseURL)
	s.Equal(100*time.Millisecond, cfg.Builder.SuggestDebounce)
	s.Equal(config.StorageMemory, cfg.Storage.Driver)
}

func (s *ConfigTestSuite) TestUnknownYAMLFieldIsRejected() {
	_, err := config.LoadFromReader(strings.NewReader("catalog:\n  provder: dnd5e\n"), map[string]string{})

	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "log level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, field: "log_level"},
		{name: "provider", mutate: func(c *config.Config) { c.Catalog.Provider = "open5e" }, field: "catalog.provider"},
		{name: "catalog base url", mutate: func(c *config.Config) { c.Catalog.BaseURL = "" }, field: "catalog.base_url"},
		{name: "predictor base url", mutate: func(c *config.Config) { c.Predictor.BaseURL = " " }, field: "predictor.base_url"},
		{name: "driver", mutate: func(c *config.Config) { c.Storage.Driver = "postgres" }, field: "storage.driver"},
		{name: "sqlite path", mutate: func(c *config.Config) { c.Storage.Path = "" }, field: "storage.path"},
		{name: "negative floor", mutate: func(c *config.Config) { c.Builder.LatencyFloor = -time.Second }, field: "builder.latency_floor"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := config.Default()
			tc.mutate(cfg)

			err := cfg.Validate()

			s.Require().Error(err)
			s.Contains(errors.ValidationFields(err), tc.field)
		})
	}
}

func (s *ConfigTestSuite) TestLoadFile() {
	path := filepath.Join(s.T().TempDir(), "battlebrain.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("storage:\n  driver: memory\n"), 0o600))

	cfg, err := config.Load(path)

	s.Require().NoError(err)
	s.Equal(config.StorageMemory, cfg.Storage.Driver)

	_, err = config.Load(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Census   CensusConfig   `yaml:"census" mapstructure:"census"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Circuit  CircuitConfig  `yaml:"circuit" mapstructure:"circuit"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Area     AreaConfig     `yaml:"area" mapstructure:"area"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CensusConfig holds Census Bureau ACS API settings.
type CensusConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Year        int     `yaml:"year" mapstructure:"year"`
	Dataset     string  `yaml:"dataset" mapstructure:"dataset"`
	Key         string  `yaml:"key" mapstructure:"key"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// ResolverConfig configures demographics resolution.
type ResolverConfig struct {
	FetchTimeoutSecs  int `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	MaxNeighbors      int `yaml:"max_neighbors" mapstructure:"max_neighbors"`
	MaxConcurrentZips int `yaml:"max_concurrent_zips" mapstructure:"max_concurrent_zips"`
}

// FetchTimeout returns the per-fetch deadline.
func (c ResolverConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// CircuitConfig configures the census circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// StoreConfig configures the persistent observation cache.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// TTL returns how long stored observations stay valid.
func (c StoreConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// AreaConfig points at an optional override for the classification table.
type AreaConfig struct {
	TablePath string `yaml:"table_path" mapstructure:"table_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BUDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("census.base_url", "https://api.census.gov/data")
	v.SetDefault("census.year", 2021)
	v.SetDefault("census.dataset", "acs/acs5")
	v.SetDefault("census.key", "")
	v.SetDefault("census.rate_limit", 20)
	v.SetDefault("census.max_attempts", 2)
	v.SetDefault("resolver.fetch_timeout_secs", 10)
	v.SetDefault("resolver.max_neighbors", 4)
	v.SetDefault("resolver.max_concurrent_zips", 4)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "budget.db")
	v.SetDefault("store.ttl_hours", 720)
	v.SetDefault("area.table_path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "resolve" (anything touching demographics), "serve" and "store".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "resolve", "serve", "store":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "none":
		if mode == "store" {
			problems = append(problems, "store.driver none has no cache to manage")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not one of sqlite, postgres, none", c.Store.Driver))
	}

	if mode == "resolve" || mode == "serve" {
		if c.Census.BaseURL == "" {
			problems = append(problems, "census.base_url is required")
		}
		if c.Resolver.FetchTimeoutSecs <= 0 {
			problems = append(problems, "resolver.fetch_timeout_secs must be > 0")
		}
		if c.Resolver.MaxNeighbors < 0 || c.Resolver.MaxNeighbors > 6 {
			problems = append(problems, "resolver.max_neighbors must be between 0 and 6")
		}
		if c.Resolver.MaxConcurrentZips < 1 || c.Resolver.MaxConcurrentZips > 50 {
			problems = append(problems, "resolver.max_concurrent_zips must be between 1 and 50")
		}
	}

	if mode == "serve" && c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

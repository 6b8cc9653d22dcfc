package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "duckflat"
	configType = "yaml"
	envPrefix  = "DUCKFLAT"
)

// Config is the full duckflat configuration.
type Config struct {
	Engine         string        `mapstructure:"engine"`
	Path           string        `mapstructure:"path"`
	ChunkSize      int           `mapstructure:"chunk_size"`
	MaxResultBytes int64         `mapstructure:"max_result_bytes"`
	DuckDB         DuckDBConfig  `mapstructure:"duckdb"`
	Log            LogConfig     `mapstructure:"log"`
	Output         OutputConfig  `mapstructure:"output"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

// DuckDBConfig configures the native engine.
type DuckDBConfig struct {
	// Library is the shared library path. Empty searches the default locations.
	Library string `mapstructure:"library"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Addr is the listen address of the Prometheus endpoint. Empty disables it.
	Addr string `mapstructure:"addr"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"engine":           "engine",
	"path":             "path",
	"chunk-size":       "chunk_size",
	"max-result-bytes": "max_result_bytes",
	"duckdb-library":   "duckdb.library",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"format":           "output.format",
	"metrics-addr":     "metrics.addr",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", "sqlite")
	v.SetDefault("path", "")
	v.SetDefault("chunk_size", 0)
	v.SetDefault("max_result_bytes", 0)
	v.SetDefault("duckdb.library", "")
	v.SetDefault("log.level", "WARN")
	v.SetDefault("log.format", "text")
	v.SetDefault("output.format", "table")
	v.SetDefault("metrics.addr", "")
}

// Load resolves the configuration from defaults, an optional config file,
// DUCKFLAT_* environment variables and flags, in increasing precedence.
// An empty configFile looks for duckflat.yaml in the working directory and
// $HOME/.config/duckflat; a missing file there is not an error.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/duckflat")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Engine == "" {
		return errors.New("config: engine must not be empty")
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("config: chunk_size must not be negative, got %d", c.ChunkSize)
	}
	if c.MaxResultBytes < 0 {
		return fmt.Errorf("config: max_result_bytes must not be negative, got %d", c.MaxResultBytes)
	}
	switch strings.ToLower(c.Output.Format) {
	case "table", "html":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

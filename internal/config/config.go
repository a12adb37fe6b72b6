package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/errors"
	"statkit/internal/report"
)

const (
	configName = ".statkit"
	configType = "yaml"
	envPrefix  = "STATKIT"
)

// Output formats understood by the report renderer
const (
	FormatTable = report.FormatTable
	FormatJSON  = report.FormatJSON
	FormatYAML  = report.FormatYAML
)

// Defaults
const (
	DefaultLogLevel = "INFO"
	DefaultFormat   = FormatTable
)

// Config is the application configuration
type Config struct {
	Alpha            float64 `mapstructure:"alpha"`
	LogLevel         string  `mapstructure:"log_level"`
	Format           string  `mapstructure:"format"`
	NormalityMinSize int     `mapstructure:"normality_min_size"`
	DataFile         string  `mapstructure:"data_file"` // optional CSV/XLSX loaded at start-up
}

// Load reads defaults, then the config file, then STATKIT_* environment
// variables. An explicit path must exist; otherwise .statkit.yaml is
// searched in the working directory and $HOME and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read configuration")
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read configuration")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("alpha", stats.DefaultAlpha)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("normality_min_size", stats.DefaultNormalityMinSize)
	v.SetDefault("data_file", "")
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if !(c.Alpha > 0 && c.Alpha < 1) {
		return errors.ConfigInvalid(fmt.Sprintf("alpha must be in (0, 1), got %g", c.Alpha))
	}
	if _, ok := internal.ParseLogLevel(c.LogLevel); !ok {
		return errors.ConfigInvalid(fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	switch c.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown format %q (want table, json or yaml)", c.Format))
	}
	if c.NormalityMinSize < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("normality_min_size must be at least 1, got %d", c.NormalityMinSize))
	}
	return nil
}

// StatsOptions returns the engine defaults implied by the configuration
func (c *Config) StatsOptions() stats.Options {
	return stats.Options{Alpha: c.Alpha, NormalityMinSize: c.NormalityMinSize}
}

// Logger builds a logger at the configured level
func (c *Config) Logger() *internal.Logger {
	level, _ := internal.ParseLogLevel(c.LogLevel)
	return internal.NewLogger(level)
}

// Package config resolves sift settings from flags, environment and an
// optional config file.
//
// Precedence, highest first: explicitly set flags, SIFT_* environment
// variables, the config file, built-in defaults. The config file is the
// --config path when given, otherwise sift.yaml in the working directory if
// one exists.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SIFT_ID_KEY.
const EnvPrefix = "SIFT"

// Config holds settings shared by all commands.
type Config struct {
	// Format is the output format: "text" or "json".
	Format string `mapstructure:"format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// IDKey names the identifier field.
	IDKey string `mapstructure:"id_key"`

	// Types is a default "name:type,..." declaration for datasets that
	// declare none.
	Types string `mapstructure:"types"`

	// Table selects the table of SQLite datasets.
	Table string `mapstructure:"table"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"format":    "format",
	"log-level": "log_level",
	"id-key":    "id_key",
	"types":     "types",
	"table":     "table",
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Format:   "text",
		LogLevel: "warn",
		IDKey:    "id",
	}
}

// Load resolves configuration. path is the explicit config file, or empty to
// look for sift.yaml. flags may be nil; flags it holds that match a config
// key override every other source when set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Defaults()
	v.SetDefault("format", def.Format)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("id_key", def.IDKey)
	v.SetDefault("types", def.Types)
	v.SetDefault("table", def.Table)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if strings.TrimSpace(c.IDKey) == "" {
		return fmt.Errorf("id_key must not be empty")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", c.LogLevel)
	}
	return level, nil
}

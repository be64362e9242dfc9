// Package config loads bookstore settings from flags, environment and an
// optional YAML file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileName = "bookstore"
	configFileType = "yaml"
	envPrefix      = "BOOKSTORE"

	KeyDBPath    = "db.path"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"

	DefaultDBPath    = "bookstore.db"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"db":         KeyDBPath,
	"log-level":  KeyLogLevel,
	"log-format": KeyLogFormat,
}

var (
	ErrDBPathEmpty      = errors.New("db.path must not be empty")
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrLogFormatUnknown = errors.New("unknown log format")
)

type Config struct {
	DB  DBConfig  `mapstructure:"db"`
	Log LogConfig `mapstructure:"log"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
}

// Load resolves the configuration. Precedence, highest first: flags that were
// set explicitly, BOOKSTORE_* environment variables, the config file, defaults.
// configFile may be empty, in which case bookstore.yaml is looked up in the
// working directory and its absence is not an error.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDBPath, DefaultDBPath)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return ErrDBPathEmpty
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrLogLevelUnknown, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", ErrLogFormatUnknown, c.Log.Format)
	}
	return nil
}

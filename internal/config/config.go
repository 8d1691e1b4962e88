// Package config loads jobflow settings from a YAML file, JOBFLOW_*
// environment variables and built-in defaults, in reverse priority order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (JOBFLOW_SERVER_URL).
const EnvPrefix = "JOBFLOW"

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the typed view of the loaded settings.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Recent  RecentConfig  `mapstructure:"recent"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Debug   bool          `mapstructure:"debug"`
	Log     LogConfig     `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	URL   string `mapstructure:"url"`
	User  string `mapstructure:"user"`
	Token string `mapstructure:"token"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type RecentConfig struct {
	Limit int `mapstructure:"limit"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MissingKeyError reports a required key with no value.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(e.Key, ".", "_"))
	return fmt.Sprintf("missing config key %s (set it in the config file or %s)", e.Key, env)
}

// DefaultPath returns $XDG_CONFIG_HOME/jobflow/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".jobflow", "config.yaml")
	}
	return filepath.Join(dir, "jobflow", "config.yaml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".jobflow"
	}
	return filepath.Join(dir, "jobflow")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "")
	v.SetDefault("server.user", "")
	v.SetDefault("server.token", "")
	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("recent.limit", 10)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "warn")
}

// Load reads path (or DefaultPath when empty). A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	file := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if explicit {
				return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
			}
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = file
	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cfg.Server.URL), "/")
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))

	if err := cfg.validateCache(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return &MissingKeyError{Key: "cache.dir"}
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return &MissingKeyError{Key: "cache.redis_addr"}
		}
	case BackendMemory:
	default:
		return fmt.Errorf("cache.backend %q is not one of %s, %s, %s", c.Cache.Backend, BackendFile, BackendRedis, BackendMemory)
	}
	if c.Recent.Limit <= 0 {
		return fmt.Errorf("recent.limit must be positive, got %d", c.Recent.Limit)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// RequireServer checks the keys needed to talk to the build server.
func (c *Config) RequireServer() error {
	var errs []error
	if c.Server.URL == "" {
		errs = append(errs, &MissingKeyError{Key: "server.url"})
	}
	if c.Server.User == "" {
		errs = append(errs, &MissingKeyError{Key: "server.user"})
	}
	if c.Server.Token == "" {
		errs = append(errs, &MissingKeyError{Key: "server.token"})
	}
	return errors.Join(errs...)
}

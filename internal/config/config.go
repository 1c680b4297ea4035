package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values for the file configuration
const (
	DefaultPageURLTemplate = "https://play.google.com/store/apps/details?id=%s"
	DefaultUserAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppOrganizer/1.0"
	DefaultFetchTimeout    = 20 * time.Second
	DefaultMaxBodyBytes    = 8 << 20
	DefaultLogLevel        = "info"

	EnvPrefix      = "APPORG"
	ConfigFileName = "config"
	appDirName     = "app-organizer"
)

// DefaultIconClasses select the icon <img> on a store page
var DefaultIconClasses = []string{"T75of", "sHb2Xb"}

// Config holds the file-backed application configuration
type Config struct {
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// FetchConfig controls store page scraping and icon downloads
type FetchConfig struct {
	PageURLTemplate string        `mapstructure:"page_url_template"` // %s receives the escaped app id
	IconClasses     []string      `mapstructure:"icon_classes"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	MaxParallel     int           `mapstructure:"max_parallel"` // 0 means unlimited
}

// CacheConfig controls the on-disk icon store
type CacheConfig struct {
	Path     string `mapstructure:"path"`
	Disabled bool   `mapstructure:"disabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			PageURLTemplate: DefaultPageURLTemplate,
			IconClasses:     append([]string(nil), DefaultIconClasses...),
			UserAgent:       DefaultUserAgent,
			Timeout:         DefaultFetchTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			MaxParallel:     DefaultMaxParallel,
		},
		Cache: CacheConfig{
			Path: filepath.Join(defaultDataDir(), "icons.db"),
		},
		Logging: LoggingConfig{
			Level:   DefaultLogLevel,
			File:    filepath.Join(defaultDataDir(), "app-organizer.log"),
			Console: true,
		},
	}
}

// defaultDataDir returns the per-user data directory for the current OS
func defaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appDirName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appDirName)
	}
}

// defaultConfigDir returns the directory searched for config.yaml
func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName)
	}
	return "."
}

// LoadConfig loads configuration from path, or from the default locations
// when path is empty. A missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper registers every key with its default so environment overrides
// such as APPORG_FETCH_TIMEOUT apply even without a config file.
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("fetch.page_url_template", defaults.Fetch.PageURLTemplate)
	v.SetDefault("fetch.icon_classes", defaults.Fetch.IconClasses)
	v.SetDefault("fetch.user_agent", defaults.Fetch.UserAgent)
	v.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	v.SetDefault("fetch.max_body_bytes", defaults.Fetch.MaxBodyBytes)
	v.SetDefault("fetch.max_parallel", defaults.Fetch.MaxParallel)
	v.SetDefault("cache.path", defaults.Cache.Path)
	v.SetDefault("cache.disabled", defaults.Cache.Disabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.console", defaults.Logging.Console)
	return v
}

// Validate checks the configuration for values the fetcher cannot use
func (c *Config) Validate() error {
	if strings.Count(c.Fetch.PageURLTemplate, "%s") != 1 {
		return fmt.Errorf("fetch.page_url_template must contain exactly one %%s: %q", c.Fetch.PageURLTemplate)
	}
	if len(c.Fetch.IconClasses) == 0 {
		return fmt.Errorf("fetch.icon_classes must not be empty")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive, got %d", c.Fetch.MaxBodyBytes)
	}
	if c.Fetch.MaxParallel < 0 {
		return fmt.Errorf("fetch.max_parallel must not be negative, got %d", c.Fetch.MaxParallel)
	}
	return nil
}

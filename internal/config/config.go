// Package config loads quotebook settings from a YAML file and QUOTEBOOK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aretw0/quotebook/pkg/remote"
)

// FileName is the base name searched for in the config paths.
const FileName = "quotebook"

type Config struct {
	DataDir  string        `yaml:"data_dir" mapstructure:"data_dir"`
	Adapter  string        `yaml:"adapter" mapstructure:"adapter"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	LogLevel string        `yaml:"log_level" mapstructure:"log_level"`
	Remote   RemoteConfig  `yaml:"remote" mapstructure:"remote"`
	Inbox    InboxConfig   `yaml:"inbox" mapstructure:"inbox"`
}

type RemoteConfig struct {
	URL         string        `yaml:"url" mapstructure:"url"`
	PushURL     string        `yaml:"push_url" mapstructure:"push_url"`
	Preset      string        `yaml:"preset" mapstructure:"preset"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	PushOnAdd   bool          `yaml:"push_on_add" mapstructure:"push_on_add"`
	SyncOnStart bool          `yaml:"sync_on_start" mapstructure:"sync_on_start"`

	// Fetch and Push override the preset's projections when set.
	Fetch *remote.Projection     `yaml:"fetch" mapstructure:"fetch"`
	Push  *remote.PushProjection `yaml:"push" mapstructure:"push"`
}

type InboxConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  "",
		Adapter:  "fs",
		Interval: 30 * time.Second,
		LogLevel: "info",
		Remote: RemoteConfig{
			Preset:  "jsonplaceholder",
			Timeout: 10 * time.Second,
		},
		Inbox: InboxConfig{
			Pattern: "*.json",
		},
	}
}

// Load reads the config file (explicit path, or quotebook.yaml in the
// working directory or the user config dir), overlays the environment and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "quotebook"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "quotebook"))
		}
	}

	v.SetEnvPrefix("QUOTEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override
// values that never appear in a file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("adapter", cfg.Adapter)
	v.SetDefault("interval", cfg.Interval)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("remote.url", cfg.Remote.URL)
	v.SetDefault("remote.push_url", cfg.Remote.PushURL)
	v.SetDefault("remote.preset", cfg.Remote.Preset)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("remote.push_on_add", cfg.Remote.PushOnAdd)
	v.SetDefault("remote.sync_on_start", cfg.Remote.SyncOnStart)
	v.SetDefault("inbox.dir", cfg.Inbox.Dir)
	v.SetDefault("inbox.pattern", cfg.Inbox.Pattern)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Adapter {
	case "fs", "sqlite", "memory":
	default:
		return fmt.Errorf("config: adapter %q is invalid (must be fs, sqlite, or memory)", c.Adapter)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level %q is invalid", c.LogLevel)
	}
	if c.Remote.URL != "" {
		if err := checkURL("remote.url", c.Remote.URL); err != nil {
			return err
		}
		if _, err := remote.Preset(c.Remote.Preset); err != nil && c.Remote.Fetch == nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Remote.PushURL != "" {
		if err := checkURL("remote.push_url", c.Remote.PushURL); err != nil {
			return err
		}
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("config: remote.timeout must not be negative")
	}
	return nil
}

// Schema resolves the remote schema: the preset, with any projection
// overrides from the file applied on top.
func (c *Config) Schema() remote.Schema {
	s, err := remote.Preset(c.Remote.Preset)
	if err != nil {
		s = remote.PresetNative
	}
	if c.Remote.Fetch != nil {
		s.Fetch = *c.Remote.Fetch
	}
	if c.Remote.Push != nil {
		s.Push = *c.Remote.Push
	}
	return s
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: %s %q must be an absolute http(s) URL", key, raw)
	}
	return nil
}

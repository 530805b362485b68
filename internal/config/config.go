// Package config loads the host configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/smnsjas/go-pshost/host"
)

const (
	configDir  = ".config/pshost"
	configFile = "config.toml"
)

// Config is the host configuration.
type Config struct {
	// Name is the host name reported to the engine.
	Name string `toml:"name"`
	// Version is the dotted host version.
	Version string `toml:"version"`
	// Culture and UICulture override the environment locale when set.
	Culture   string `toml:"culture"`
	UICulture string `toml:"ui_culture"`
	// Prompt is written before each command read.
	Prompt string `toml:"prompt"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	Intellisense IntellisenseConfig `toml:"intellisense"`
}

// IntellisenseConfig seeds the completion candidates.
type IntellisenseConfig struct {
	Candidates []string `toml:"candidates"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:     "go-pshost",
		Version:  "1.0.0.0",
		Prompt:   "PS> ",
		LogLevel: "warn",
	}
}

// DefaultPath returns ~/.config/pshost/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFile), nil
}

// Load reads the configuration at path over the defaults.
// An empty path uses DefaultPath. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field that has a parsed form.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name must not be empty")
	}
	if _, err := c.HostVersion(); err != nil {
		return err
	}
	if _, err := c.HostCulture(); err != nil {
		return err
	}
	if _, err := c.HostUICulture(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// HostVersion parses Version.
func (c *Config) HostVersion() (host.Version, error) {
	return host.ParseVersion(c.Version)
}

// HostCulture parses Culture. An empty culture returns the zero Culture.
func (c *Config) HostCulture() (host.Culture, error) {
	return parseOptionalCulture("culture", c.Culture)
}

// HostUICulture parses UICulture. An empty culture returns the zero Culture.
func (c *Config) HostUICulture() (host.Culture, error) {
	return parseOptionalCulture("ui_culture", c.UICulture)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func parseOptionalCulture(key, value string) (host.Culture, error) {
	if value == "" {
		return host.Culture{}, nil
	}
	culture, err := host.ParseCulture(value)
	if err != nil {
		return host.Culture{}, fmt.Errorf("%s: %w", key, err)
	}
	return culture, nil
}

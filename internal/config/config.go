// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultFile     = "today.toml"
	DefaultAddr     = "localhost:8080"
	DefaultLogLevel = "info"
	DefaultStore    = "memory"
)

// Config holds the full configuration for today.
type Config struct {
	Addr string `toml:"addr"`

	// Store selects the task list backend: "memory" or "sqlite".
	Store string `toml:"store"`

	// Seed installs the example tasks on start.
	Seed bool `toml:"seed"`

	Log  LogConfig `toml:"log"`
	Keys Keymap    `toml:"keys"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Timestamps bool   `toml:"timestamps"`
}

// Keymap binds terminal keys to screen actions.
type Keymap struct {
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Add            string `toml:"add"`
	Edit           string `toml:"edit"`
	ToggleDone     string `toml:"toggle_done"`
	TogglePriority string `toml:"toggle_priority"`
	Delete         string `toml:"delete"`
	Mark           string `toml:"mark"`
	DeleteMarked   string `toml:"delete_marked"`
	Quit           string `toml:"quit"`
}

func DefaultKeymap() Keymap {
	return Keymap{
		Up:             "k",
		Down:           "j",
		Add:            "a",
		Edit:           "e",
		ToggleDone:     " ",
		TogglePriority: "p",
		Delete:         "d",
		Mark:           "m",
		DeleteMarked:   "D",
		Quit:           "q",
	}
}

// Default returns a config with every field set to its default.
func Default() *Config {
	return &Config{
		Addr:  DefaultAddr,
		Store: DefaultStore,
		Seed:  true,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			Format:     "text",
			Timestamps: true,
		},
		Keys: DefaultKeymap(),
	}
}

// Load builds the configuration from, in increasing priority:
// defaults, the TOML file at path, and TODAY_* environment variables.
// An empty path falls back to today.toml in the working directory, which
// may be absent. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		if err := loadFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODAY_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TODAY_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("TODAY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TODAY_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TODAY_SEED"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TODAY_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	return nil
}

// Validate rejects an empty address, an unknown store and ambiguous key
// bindings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	switch c.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store must be memory or sqlite, got %q", c.Store)
	}

	bindings := []struct{ name, key string }{
		{"up", c.Keys.Up},
		{"down", c.Keys.Down},
		{"add", c.Keys.Add},
		{"edit", c.Keys.Edit},
		{"toggle_done", c.Keys.ToggleDone},
		{"toggle_priority", c.Keys.TogglePriority},
		{"delete", c.Keys.Delete},
		{"mark", c.Keys.Mark},
		{"delete_marked", c.Keys.DeleteMarked},
		{"quit", c.Keys.Quit},
	}
	seen := make(map[string]string, len(bindings))
	for _, b := range bindings {
		if b.key == "" {
			return fmt.Errorf("keys.%s must not be empty", b.name)
		}
		if prev, ok := seen[b.key]; ok {
			return fmt.Errorf("keys.%s and keys.%s both bound to %q", prev, b.name, b.key)
		}
		seen[b.key] = b.name
	}
	return nil
}

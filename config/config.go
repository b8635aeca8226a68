package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultName        = "statetree"
	defaultObserver    = "slog"
	defaultLogLevel    = "info"
	defaultInspectAddr = "127.0.0.1:7790"
)

// InspectConfig controls the read-only snapshot endpoint.
type InspectConfig struct {
	// Enabled starts the endpoint alongside the tree.
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`

	// Addr is the listen address, host:port.
	Addr string `json:"addr" toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// DefaultInspectConfig returns the endpoint disabled on a loopback address.
func DefaultInspectConfig() InspectConfig {
	return InspectConfig{
		Enabled: false,
		Addr:    defaultInspectAddr,
	}
}

func (c *InspectConfig) Merge(source *InspectConfig) {
	if source.Enabled {
		c.Enabled = source.Enabled
	}

	if source.Addr != "" {
		c.Addr = source.Addr
	}
}

// TreeConfig describes a state tree. Observer is a name resolved through the
// observability registry so it can live in a config file.
type TreeConfig struct {
	// Name identifies the root container in events and errors.
	Name string `json:"name" toml:"name" yaml:"name" validate:"required"`

	// Observer selects the registered observer ("noop", "slog", ...).
	Observer string `json:"observer" toml:"observer" yaml:"observer" validate:"required"`

	// LogLevel is the minimum slog level: debug, info, warn or error.
	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// Inspect configures the snapshot endpoint.
	Inspect InspectConfig `json:"inspect" toml:"inspect" yaml:"inspect"`
}

// DefaultTreeConfig returns a config logging through slog at info level with
// inspection disabled.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		Name:     defaultName,
		Observer: defaultObserver,
		LogLevel: defaultLogLevel,
		Inspect:  DefaultInspectConfig(),
	}
}

func (c *TreeConfig) Merge(source *TreeConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}

	c.Inspect.Merge(&source.Inspect)
}

// SlogLevel parses LogLevel. Unknown values fall back to info.
func (c TreeConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats: a name and observer are required, the log
// level must be one of debug, info, warn or error, and the inspect address
// must be host:port.
func (c TreeConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the config at path, merges it over the defaults and validates
// the result. A missing file is not an error.
func Load(path string) (TreeConfig, error) {
	cfg := DefaultTreeConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return TreeConfig{}, fmt.Errorf("read config: %w", err)
	}

	var loaded TreeConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &loaded)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return TreeConfig{}, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return TreeConfig{}, err
	}
	return cfg, nil
}

// Package config provides configuration for claude-chat: environment
// variables, an optional TOML config file, and the static model catalog.
//
// Precedence, lowest to highest: built-in defaults, ~/.claude-chat/config.toml,
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Model is one entry in the static model catalog: a human-readable display
// name paired with the opaque identifier the model service expects.
type Model struct {
	Name string `toml:"name"`
	ID   string `toml:"id"`
}

// catalog is static configuration data, not mutated at runtime. The first
// entry is the default model.
var catalog = []Model{
	{Name: "Claude Sonnet 4.5", ID: "claude-sonnet-4-5-20250929"},
	{Name: "Claude Opus 4", ID: "claude-opus-4-20250514"},
	{Name: "Claude Sonnet 4", ID: "claude-sonnet-4-20250514"},
}

// Models returns the model catalog in selection order.
func Models() []Model {
	return catalog
}

// DefaultModel returns the catalog's default entry.
func DefaultModel() Model {
	return catalog[0]
}

// ModelByName resolves a display name (as persisted in conversation records)
// back to a catalog entry.
func ModelByName(name string) (Model, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// Config holds the runtime configuration.
type Config struct {
	AnthropicAPIKey string
	StorageDir      string
	DefaultModel    string
	MaxOutputTokens int64

	TelemetryEnabled bool
	OTLPEndpoint     string
}

// fileConfig is the shape of the optional TOML config file.
type fileConfig struct {
	StorageDir      string `toml:"storage_dir"`
	DefaultModel    string `toml:"default_model"`
	MaxOutputTokens int64  `toml:"max_output_tokens"`

	Telemetry struct {
		Enabled      bool   `toml:"enabled"`
		OTLPEndpoint string `toml:"otlp_endpoint"`
	} `toml:"telemetry"`
}

// ConfigDir returns the claude-chat configuration directory (~/.claude-chat).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude-chat"), nil
}

// Load builds the configuration from defaults, the optional config file, and
// environment variables.
func Load() (Config, error) {
	cfg := Config{
		DefaultModel:    DefaultModel().Name,
		MaxOutputTokens: 8000,
	}

	dir, err := ConfigDir()
	if err == nil {
		cfg.StorageDir = filepath.Join(dir, "conversations")
		if err := applyFile(&cfg, filepath.Join(dir, "config.toml")); err != nil {
			return Config{}, err
		}
	} else {
		cfg.StorageDir = "conversations"
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.StorageDir != "" {
		cfg.StorageDir = fc.StorageDir
	}
	if fc.DefaultModel != "" {
		cfg.DefaultModel = fc.DefaultModel
	}
	if fc.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = fc.MaxOutputTokens
	}
	cfg.TelemetryEnabled = fc.Telemetry.Enabled
	cfg.OTLPEndpoint = fc.Telemetry.OTLPEndpoint
	return nil
}

func applyEnv(cfg *Config) {
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if v := os.Getenv("CLAUDE_CHAT_STORAGE_DIR"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("CLAUDE_CHAT_MAX_OUTPUT_TOKENS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxOutputTokens = n
		}
	}
	if v := os.Getenv("CLAUDE_CHAT_OTLP_ENDPOINT"); v != "" {
		cfg.TelemetryEnabled = true
		cfg.OTLPEndpoint = v
	}
}

// Validate checks that required configuration is present. A missing API key
// is a fatal configuration error reported before any session logic runs.
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("missing required environment variable: ANTHROPIC_API_KEY")
	}
	return nil
}

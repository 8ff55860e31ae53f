package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresAPIKey(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	assert.NoError(t, Config{AnthropicAPIKey: "sk-test"}.Validate())
}

func TestModelCatalog(t *testing.T) {
	def := DefaultModel()
	assert.Equal(t, "Claude Sonnet 4.5", def.Name)
	assert.Equal(t, "claude-sonnet-4-5-20250929", def.ID)

	m, ok := ModelByName("Claude Opus 4")
	require.True(t, ok)
	assert.Equal(t, "claude-opus-4-20250514", m.ID)

	_, ok = ModelByName("Claude That Never Was")
	assert.False(t, ok)
}

func TestApplyFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage_dir = "/tmp/elsewhere"
default_model = "Claude Opus 4"
max_output_tokens = 4096

[telemetry]
enabled = true
otlp_endpoint = "http://localhost:4318"
`), 0o644))

	cfg := Config{StorageDir: "default", DefaultModel: "Claude Sonnet 4.5", MaxOutputTokens: 8000}
	require.NoError(t, applyFile(&cfg, path))

	assert.Equal(t, "/tmp/elsewhere", cfg.StorageDir)
	assert.Equal(t, "Claude Opus 4", cfg.DefaultModel)
	assert.Equal(t, int64(4096), cfg.MaxOutputTokens)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, "http://localhost:4318", cfg.OTLPEndpoint)
}

func TestApplyFileMissingFileIsNotAnError(t *testing.T) {
	cfg := Config{StorageDir: "default"}
	require.NoError(t, applyFile(&cfg, filepath.Join(t.TempDir(), "missing.toml")))
	assert.Equal(t, "default", cfg.StorageDir)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-from-env")
	t.Setenv("CLAUDE_CHAT_STORAGE_DIR", "/tmp/conv")
	t.Setenv("CLAUDE_CHAT_MAX_OUTPUT_TOKENS", "2048")
	t.Setenv("CLAUDE_CHAT_OTLP_ENDPOINT", "http://collector:4318")

	cfg := Config{MaxOutputTokens: 8000}
	applyEnv(&cfg)

	assert.Equal(t, "sk-from-env", cfg.AnthropicAPIKey)
	assert.Equal(t, "/tmp/conv", cfg.StorageDir)
	assert.Equal(t, int64(2048), cfg.MaxOutputTokens)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, "http://collector:4318", cfg.OTLPEndpoint)
}

package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileDefaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "noop", cfg.AI.Provider)
	assert.Equal(t, 5, cfg.Extraction.SamplePages)
	assert.Equal(t, 1024, cfg.Extraction.CacheSize)
	assert.Equal(t, []string{"eng"}, cfg.Extraction.OCRLanguages)
	assert.Equal(t, "./data/libram", cfg.Storage.Badger.Path)
}

func TestLoadFromFileLayersTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libram.toml")
	content := `
[logging]
level = "debug"

[ai]
provider = "claude"
model = "claude-sonnet-4-20250514"

[extraction]
sample_pages = 3

[storage.badger]
path = "/tmp/libram-test"
reset_on_startup = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "claude", cfg.AI.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.AI.Model)
	assert.Equal(t, 3, cfg.Extraction.SamplePages)
	assert.True(t, cfg.Storage.Badger.ResetOnStartup)

	// Untouched fields keep their defaults
	assert.Equal(t, 1024, cfg.Extraction.CacheSize)
}

func TestLoadFromFileMissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/libram.toml")
	require.Error(t, err)
}

func TestLoadFromFileRejectsInvalidProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libram.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ai]\nprovider = \"skynet\"\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIBRAM_LOG_LEVEL", "warn")
	t.Setenv("LIBRAM_AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("LIBRAM_SAMPLE_PAGES", "7")
	t.Setenv("LIBRAM_BADGER_PATH", "/tmp/libram-env")

	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, 7, cfg.Extraction.SamplePages)
	assert.Equal(t, "/tmp/libram-env", cfg.Storage.Badger.Path)
}

package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	AI         AIConfig         `toml:"ai"`
	Extraction ExtractionConfig `toml:"extraction"`
	Storage    StorageConfig    `toml:"storage"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// AIConfig selects and configures the classification backend.
type AIConfig struct {
	Provider    string  `toml:"provider" validate:"omitempty,oneof=noop claude gemini"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=0"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=2"`
	// RequestsPerMinute throttles backend calls; 0 disables throttling.
	RequestsPerMinute int `toml:"requests_per_minute" validate:"gte=0"`
}

// ExtractionConfig tunes the extraction pipeline.
type ExtractionConfig struct {
	// SamplePages is how many pages confidence testing inspects.
	SamplePages int `toml:"sample_pages" validate:"gte=0"`
	// CacheSize bounds the categorization LRU cache.
	CacheSize int `toml:"cache_size" validate:"gte=0"`
	// OCRLanguages are Tesseract language hints, e.g. ["eng"].
	OCRLanguages []string `toml:"ocr_languages"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// DefaultConfig returns the built-in defaults applied before any file or
// environment override.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		AI: AIConfig{
			Provider:    "noop",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
		Extraction: ExtractionConfig{
			SamplePages:  5,
			CacheSize:    1024,
			OCRLanguages: []string{"eng"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/libram",
			},
		},
	}
}

// LoadFromFile loads configuration in layers: defaults, then the TOML file if
// present, then environment overrides, then validation. An empty path skips
// the file layer.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies LIBRAM_* environment variables on top of the
// loaded configuration. API keys in particular should come from the
// environment rather than the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIBRAM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LIBRAM_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("LIBRAM_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.AI.Provider == "claude" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.AI.Provider == "gemini" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("LIBRAM_SAMPLE_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Extraction.SamplePages = n
		}
	}
	if v := os.Getenv("LIBRAM_BADGER_PATH"); v != "" {
		cfg.Storage.Badger.Path = v
	}
}

// Package config provides file, environment and request configuration for xcellab.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	xerrors "github.com/koba/xcellab/internal/errors"
	"github.com/koba/xcellab/internal/schema"
)

// Config holds the tool configuration loaded from file and environment.
type Config struct {
	// Generator holds the defaults for generate and preview
	Generator GeneratorDefaults `json:"generator" yaml:"generator"`

	// OutputDir is where exported files are written
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Log configuration
	Log LogConfig `json:"log" yaml:"log"`

	// Suggest configures the schema-suggestion model
	Suggest SuggestConfig `json:"suggest" yaml:"suggest"`

	// Storage configures where exported files are uploaded
	Storage StorageConfig `json:"storage" yaml:"storage"`
}

// GeneratorDefaults holds default generation settings.
type GeneratorDefaults struct {
	Type       string      `json:"type" yaml:"type"`
	Difficulty string      `json:"difficulty" yaml:"difficulty"`
	RowCount   int         `json:"row_count" yaml:"row_count"`
	Messy      MessyConfig `json:"messy" yaml:"messy"`
	Filename   string      `json:"filename" yaml:"filename"`
	Format     string      `json:"format" yaml:"format"`
	SchemaFile string      `json:"schema_file" yaml:"schema_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" yaml:"level"`
	// Format is text or json
	Format string `json:"format" yaml:"format"`
}

// SuggestConfig holds language-model settings.
type SuggestConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	Model   string `json:"model" yaml:"model"`
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// StorageConfig holds upload settings.
type StorageConfig struct {
	// Type is local or s3; empty disables uploads
	Type string `json:"type" yaml:"type"`

	// Path is the target directory for local uploads
	Path string `json:"path" yaml:"path"`

	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 upload configuration.
type S3Config struct {
	Bucket       string `json:"bucket" yaml:"bucket"`
	Region       string `json:"region" yaml:"region"`
	Endpoint     string `json:"endpoint" yaml:"endpoint"`
	Prefix       string `json:"prefix" yaml:"prefix"`
	UsePathStyle bool   `json:"use_path_style" yaml:"use_path_style"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorDefaults{
			Type:       string(schema.DatasetStudent),
			Difficulty: string(DifficultyBeginner),
			RowCount:   100,
			Filename:   DefaultFilename,
			Format:     string(FormatXLSX),
		},
		OutputDir: ".",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Suggest: SuggestConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := schema.ParseDatasetType(c.Generator.Type); err != nil {
		return err
	}
	if _, err := ParseDifficulty(c.Generator.Difficulty); err != nil {
		return err
	}
	if _, err := ParseFormat(c.Generator.Format); err != nil {
		return err
	}
	if c.Generator.RowCount <= 0 {
		return fmt.Errorf("generator.row_count must be positive, got %d", c.Generator.RowCount)
	}
	if err := c.Generator.Messy.Validate(); err != nil {
		return fmt.Errorf("generator.messy: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	switch c.Storage.Type {
	case "", "local", "s3":
	default:
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}
	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required when storage type is s3")
	}
	if c.Storage.Type == "local" && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when storage type is local")
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment if it exists.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return xerrors.NewConfigError("failed to load "+path, err)
	}
	return nil
}

// LoadFromEnv overlays environment variables onto cfg.
// Variables use the XCELLAB_ prefix; the model credentials also honour the
// conventional OPENAI_* names.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("XCELLAB_TYPE"); v != "" {
		cfg.Generator.Type = v
	}
	if v := os.Getenv("XCELLAB_DIFFICULTY"); v != "" {
		cfg.Generator.Difficulty = v
	}
	if v := os.Getenv("XCELLAB_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.RowCount = n
		}
	}
	if v := os.Getenv("XCELLAB_FORMAT"); v != "" {
		cfg.Generator.Format = v
	}
	if v := os.Getenv("XCELLAB_FILENAME"); v != "" {
		cfg.Generator.Filename = v
	}
	if v := os.Getenv("XCELLAB_SCHEMA_FILE"); v != "" {
		cfg.Generator.SchemaFile = v
	}
	if v := os.Getenv("XCELLAB_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	// Logging
	if v := os.Getenv("XCELLAB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("XCELLAB_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Suggest
	if v := firstEnv("XCELLAB_API_KEY", "OPENAI_API_KEY"); v != "" {
		cfg.Suggest.APIKey = v
	}
	if v := firstEnv("XCELLAB_MODEL", "OPENAI_MODEL"); v != "" {
		cfg.Suggest.Model = v
	}
	if v := firstEnv("XCELLAB_BASE_URL", "OPENAI_BASE_URL"); v != "" {
		cfg.Suggest.BaseURL = v
	}

	// Storage
	if v := os.Getenv("XCELLAB_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("XCELLAB_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("XCELLAB_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("XCELLAB_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("XCELLAB_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("XCELLAB_S3_PREFIX"); v != "" {
		cfg.Storage.S3.Prefix = v
	}
}

// Load builds the effective configuration: defaults, then the optional file,
// then the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, xerrors.NewConfigError("failed to load "+path, err)
		}
	}
	LoadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, xerrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

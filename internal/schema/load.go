package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadColumns reads a column list from a YAML or JSON file
func LoadColumns(path string) ([]Column, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var columns []Column
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &columns); err != nil {
			return nil, fmt.Errorf("failed to parse YAML schema: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &columns); err != nil {
			return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema file format: %s", ext)
	}

	if err := Validate(columns); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return columns, nil
}

// SaveColumns writes a column list as YAML or JSON, chosen by file extension.
// The file is written to a temporary sibling first so a failure leaves any
// existing schema untouched.
func SaveColumns(path string, columns []Column) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(columns)
	case ".json":
		data, err = json.MarshalIndent(columns, "", "  ")
	default:
		return fmt.Errorf("unsupported schema file format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create schema directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace schema file: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/koba/xcellab/internal/schema"
)

// MessyConfig controls how much noise is injected into generated data.
// Percentages are 0–100 and act as independent per-value / per-row probabilities.
type MessyConfig struct {
	MissingPct     float64 `json:"missing_pct" yaml:"missing_pct"`
	DuplicatePct   float64 `json:"duplicate_pct" yaml:"duplicate_pct"`
	ExtraSpaces    bool    `json:"extra_spaces" yaml:"extra_spaces"`
	MixedCasing    bool    `json:"mixed_casing" yaml:"mixed_casing"`
	WrongTypes     bool    `json:"wrong_types" yaml:"wrong_types"`
	InvalidFormats bool    `json:"invalid_formats" yaml:"invalid_formats"`
}

// Validate checks the percentage bounds. NaN and infinities are rejected.
func (m MessyConfig) Validate() error {
	if !validPercent(m.MissingPct) {
		return fmt.Errorf("missing_pct must be between 0 and 100, got %v", m.MissingPct)
	}
	if !validPercent(m.DuplicatePct) {
		return fmt.Errorf("duplicate_pct must be between 0 and 100, got %v", m.DuplicatePct)
	}
	return nil
}

func validPercent(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 100
}

// DuplicateRows returns how many duplicate rows a run of rowCount rows gets.
// Fewer than two rows, or a non-finite percentage, gives none.
func (m MessyConfig) DuplicateRows(rowCount int) int {
	pct := m.DuplicatePct
	if rowCount < 2 || !(pct > 0) || math.IsInf(pct, 1) {
		return 0
	}
	return int(math.Floor(float64(rowCount) * math.Min(pct, 100) / 100))
}

// Difficulty is a named noise tier
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
	// DifficultyCustom keeps whatever noise settings the caller supplied.
	DifficultyCustom Difficulty = "CUSTOM"
)

var difficultyPresets = map[Difficulty]MessyConfig{
	DifficultyBeginner: {},
	DifficultyIntermediate: {
		MissingPct:     8,
		DuplicatePct:   5,
		ExtraSpaces:    true,
		InvalidFormats: true,
	},
	DifficultyAdvanced: {
		MissingPct:     18,
		DuplicatePct:   15,
		ExtraSpaces:    true,
		MixedCasing:    true,
		WrongTypes:     true,
		InvalidFormats: true,
	},
}

// ParseDifficulty resolves a difficulty name, case-insensitively
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	if d == DifficultyCustom {
		return d, nil
	}
	if _, ok := difficultyPresets[d]; !ok {
		return "", fmt.Errorf("unknown difficulty: %s (must be beginner, intermediate, advanced or custom)", s)
	}
	return d, nil
}

// Apply returns the noise settings for the tier. CUSTOM returns current unchanged.
func (d Difficulty) Apply(current MessyConfig) MessyConfig {
	if preset, ok := difficultyPresets[d]; ok {
		return preset
	}
	return current
}

// Format is an export target
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQL    Format = "sql"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported export format
var Formats = []Format{FormatXLSX, FormatCSV, FormatJSON, FormatSQL, FormatSQLite}

// ParseFormat resolves a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// DefaultFilename is the base name of exported files when none is given
const DefaultFilename = "xcellab_practice_data"

// Extension returns the file extension written for the format
func (f Format) Extension() string {
	if f == FormatSQLite {
		return ".db"
	}
	return "." + string(f)
}

// GeneratorConfig is one generation request
type GeneratorConfig struct {
	Type     schema.DatasetType
	Columns  []schema.Column // used when Type is CUSTOM
	RowCount int
	Messy    MessyConfig
	Filename string
	Format   Format
}

// ResolveColumns returns the schema the request generates from
func (c GeneratorConfig) ResolveColumns() []schema.Column {
	if c.Type == schema.DatasetCustom {
		return c.Columns
	}
	return schema.PresetColumns(c.Type)
}

// Validate checks the request before generation
func (c GeneratorConfig) Validate() error {
	if c.RowCount <= 0 {
		return fmt.Errorf("row count must be positive, got %d", c.RowCount)
	}
	if err := c.Messy.Validate(); err != nil {
		return err
	}
	cols := c.ResolveColumns()
	if len(cols) == 0 {
		if c.Type == schema.DatasetCustom {
			return fmt.Errorf("custom dataset has no columns; supply a schema file or run suggest first")
		}
		return fmt.Errorf("dataset type %s has no preset columns", c.Type)
	}
	return schema.Validate(cols)
}

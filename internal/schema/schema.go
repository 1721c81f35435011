package schema

import (
	"fmt"
	"strings"
)

// ColumnType is the kind of value a column holds
type ColumnType string

const (
	TypeText        ColumnType = "text"
	TypeNumber      ColumnType = "number"
	TypeDate        ColumnType = "date"
	TypeCurrency    ColumnType = "currency"
	TypeEmail       ColumnType = "email"
	TypeCity        ColumnType = "city"
	TypeBoolean     ColumnType = "boolean"
	TypeSubjectMark ColumnType = "subject_mark"
	TypeCategory    ColumnType = "category"
)

// ParseColumnType normalizes a type name. "string" is accepted as an alias of text.
// Unknown names are returned as-is so generation can degrade to a sentinel value.
func ParseColumnType(s string) ColumnType {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "string":
		return TypeText
	case "subject-mark", "subjectmark":
		return TypeSubjectMark
	}
	return ColumnType(name)
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML and JSON decoding
func (t *ColumnType) UnmarshalText(text []byte) error {
	*t = ParseColumnType(string(text))
	return nil
}

// IsNumeric reports whether values of the type are numbers. A Range on these
// types bounds the generated value.
func (t ColumnType) IsNumeric() bool {
	return t == TypeNumber || t == TypeSubjectMark || t == TypeCurrency
}

// Range is an inclusive numeric bound
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Column represents one declared output column
type Column struct {
	Name        string     `json:"name" yaml:"name"`
	Type        ColumnType `json:"type" yaml:"type"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Range       *Range     `json:"range,omitempty" yaml:"range,omitempty"`
	Options     []string   `json:"options,omitempty" yaml:"options,omitempty"`
}

// Validate checks that a column list can be generated from
func Validate(columns []Column) error {
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return fmt.Errorf("column %d has no name", i+1)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true

		if col.Range != nil && col.Range.Min > col.Range.Max {
			return fmt.Errorf("column %s: range min %d is greater than max %d", col.Name, col.Range.Min, col.Range.Max)
		}
	}
	return nil
}

// Row represents a single row of data
type Row map[string]interface{}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

package database

import (
	"regexp"
	"strings"

	"github.com/koba/xcellab/internal/schema"
)

// ColumnKind is the storage class inferred for a generated column
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindReal
)

// Column is one column of a target table
type Column struct {
	Name string
	Kind ColumnKind
}

// Table describes a table to create and fill
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the table's column names in order
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// InferTable derives a table definition from a header and its rows. A column
// whose non-null values are all ints is an integer column, one holding only
// ints and floats is real, anything else (including an all-null column) is text.
func InferTable(name string, columns []string, rows []schema.Row) Table {
	table := Table{Name: TableName(name), Columns: make([]Column, len(columns))}
	for i, col := range columns {
		table.Columns[i] = Column{Name: col, Kind: inferKind(col, rows)}
	}
	return table
}

func inferKind(col string, rows []schema.Row) ColumnKind {
	seen := false
	kind := KindInteger
	for _, row := range rows {
		switch row[col].(type) {
		case nil:
			continue
		case int, int32, int64:
			seen = true
		case float32, float64:
			seen = true
			kind = KindReal
		default:
			return KindText
		}
	}
	if !seen {
		return KindText
	}
	return kind
}

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// TableName turns a sheet name such as "Instructions & Tasks" into a plain
// snake_case identifier
func TableName(name string) string {
	s := strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if s == "" {
		return "data"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "t_" + s
	}
	return s
}

// Package report audits a generated dataset and counts the mess it contains,
// so a practice sheet can be checked against what the learner should find.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/schema"
)

// ColumnStats counts the problems found in one column
type ColumnStats struct {
	Name          string
	Missing       int
	Padded        int
	TypeMismatch  int
	InvalidFormat int
}

// Issues is the total number of problem cells in the column
func (c ColumnStats) Issues() int {
	return c.Missing + c.Padded + c.TypeMismatch + c.InvalidFormat
}

// Report summarises the messiness of a dataset
type Report struct {
	Type          schema.DatasetType
	Rows          int
	DuplicateRows int
	Columns       []ColumnStats
}

// Missing returns the number of missing cells across all columns
func (r *Report) Missing() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Missing
	}
	return n
}

// Issues returns the number of problem cells plus duplicate rows
func (r *Report) Issues() int {
	n := r.DuplicateRows
	for _, c := range r.Columns {
		n += c.Issues()
	}
	return n
}

// Analyze counts exact duplicate rows and, per column, missing cells, cells
// with leading or trailing spaces, values of the wrong kind for a declared
// column type, and email addresses without an @
func Analyze(ds *generator.Dataset) *Report {
	declared := make(map[string]schema.ColumnType, len(ds.Schema))
	for _, col := range ds.Schema {
		declared[col.Name] = col.Type
	}

	r := &Report{
		Type:    ds.Type,
		Rows:    len(ds.Rows),
		Columns: make([]ColumnStats, len(ds.Columns)),
	}
	for i, name := range ds.Columns {
		r.Columns[i].Name = name
	}

	seen := make(map[string]bool, len(ds.Rows))
	for _, row := range ds.Rows {
		key := rowKey(row, ds.Columns)
		if seen[key] {
			r.DuplicateRows++
		} else {
			seen[key] = true
		}

		for i, name := range ds.Columns {
			t, isDeclared := declared[name]
			inspect(&r.Columns[i], row[name], t, isDeclared)
		}
	}

	return r
}

func inspect(stats *ColumnStats, value interface{}, t schema.ColumnType, isDeclared bool) {
	if value == nil {
		stats.Missing++
		return
	}

	s, isString := value.(string)
	if isString && s != strings.TrimSpace(s) {
		stats.Padded++
	}

	// Derived columns have no declared type
	if !isDeclared {
		return
	}

	switch {
	case t.IsNumeric() && isString:
		stats.TypeMismatch++
	case !t.IsNumeric() && !isString:
		stats.TypeMismatch++
	case t == schema.TypeEmail && !strings.Contains(s, "@"):
		stats.InvalidFormat++
	}
}

// rowKey generates a key for a row over the given columns
func rowKey(row schema.Row, columns []string) string {
	keyParts := make([]interface{}, len(columns))
	for i, col := range columns {
		keyParts[i] = row[col]
	}

	// Use JSON encoding for consistent key generation
	keyJSON, err := json.Marshal(keyParts)
	if err != nil {
		return fmt.Sprintf("%v", keyParts)
	}

	return string(keyJSON)
}

// Display prints the report in a human-readable format
func Display(w io.Writer, r *Report) {
	fmt.Fprintf(w, "=== Data Quality Report (%s) ===\n", r.Type)
	fmt.Fprintf(w, "Rows: %s\n", humanize.Comma(int64(r.Rows)))
	fmt.Fprintf(w, "Duplicate rows: %s\n", humanize.Comma(int64(r.DuplicateRows)))

	if r.Issues() == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-24s %8s %8s %8s %8s\n", "Column", "Missing", "Padded", "Type", "Format")
	for _, c := range r.Columns {
		if c.Issues() == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-24s %8d %8d %8d %8d\n", c.Name, c.Missing, c.Padded, c.TypeMismatch, c.InvalidFormat)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total issues: %s\n", humanize.Comma(int64(r.Issues())))
}

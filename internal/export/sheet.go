package export

import (
	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/schema"
)

const (
	RawDataSheet      = "Raw Data"
	InstructionsSheet = "Instructions & Tasks"
	TaskColumn        = "Practice Task"
)

// Sheet is one named table of a workbook
type Sheet struct {
	Name    string
	Columns []string
	Rows    []schema.Row
}

// Values returns a row's values in the sheet's column order
func (s Sheet) Values(row schema.Row) []interface{} {
	values := make([]interface{}, len(s.Columns))
	for i, col := range s.Columns {
		values[i] = row[col]
	}
	return values
}

// WorkbookSheets lays a dataset out as the generated rows followed by the
// practice tasks, one task per row
func WorkbookSheets(ds *generator.Dataset) []Sheet {
	tasks := make([]schema.Row, len(ds.Tasks))
	for i, task := range ds.Tasks {
		tasks[i] = schema.Row{TaskColumn: task}
	}

	return []Sheet{
		{Name: RawDataSheet, Columns: ds.Columns, Rows: ds.Rows},
		{Name: InstructionsSheet, Columns: []string{TaskColumn}, Rows: tasks},
	}
}

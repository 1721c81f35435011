package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/koba/xcellab/internal/schema"
)

// DMLGenerator generates DML statements
type DMLGenerator struct {
	dialect Dialect
}

// NewDMLGenerator creates a new DML generator
func NewDMLGenerator(dialect Dialect) *DMLGenerator {
	return &DMLGenerator{dialect: dialect}
}

// Insert generates a literal INSERT statement for one row. Values are written
// in the table's column order.
func (g *DMLGenerator) Insert(table Table, row schema.Row) string {
	values := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		values[i] = g.formatValue(row[col.Name])
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		g.dialect.QuoteIdentifier(table.Name),
		strings.Join(g.dialect.quoteIdentifiers(table.ColumnNames()), ", "),
		strings.Join(values, ", "),
	)
}

// PreparedInsert generates a parameterised INSERT for the table
func (g *DMLGenerator) PreparedInsert(table Table) string {
	placeholders := make([]string, len(table.Columns))
	for i := range table.Columns {
		placeholders[i] = g.dialect.Placeholder(i + 1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		g.dialect.QuoteIdentifier(table.Name),
		strings.Join(g.dialect.quoteIdentifiers(table.ColumnNames()), ", "),
		strings.Join(placeholders, ", "),
	)
}

// Args returns a row's values in the table's column order
func Args(table Table, row schema.Row) []interface{} {
	args := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		args[i] = row[col.Name]
	}
	return args
}

func (g *DMLGenerator) formatValue(val interface{}) string {
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case string:
		// Escape single quotes
		escaped := strings.ReplaceAll(v, "'", "''")
		return fmt.Sprintf("'%s'", escaped)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		// Fallback to string representation
		escaped := strings.ReplaceAll(fmt.Sprintf("%v", v), "'", "''")
		return fmt.Sprintf("'%s'", escaped)
	}
}

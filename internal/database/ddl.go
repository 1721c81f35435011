package database

import (
	"fmt"
	"strings"
)

// DDLGenerator generates DDL statements
type DDLGenerator struct {
	dialect Dialect
}

// NewDDLGenerator creates a new DDL generator
func NewDDLGenerator(dialect Dialect) *DDLGenerator {
	return &DDLGenerator{dialect: dialect}
}

// CreateTable generates the CREATE TABLE statement for a table
func (g *DDLGenerator) CreateTable(table Table) string {
	var parts []string

	// Column definitions
	for _, col := range table.Columns {
		parts = append(parts, g.columnDefinition(col))
	}

	tableName := g.dialect.QuoteIdentifier(table.Name)
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", tableName, strings.Join(parts, ",\n  "))
}

// DropTable generates a DROP TABLE IF EXISTS statement
func (g *DDLGenerator) DropTable(tableName string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", g.dialect.QuoteIdentifier(tableName))
}

func (g *DDLGenerator) columnDefinition(col Column) string {
	// Every generated column may hold missing values, so none is NOT NULL
	return g.dialect.QuoteIdentifier(col.Name) + " " + g.dialect.TypeName(col.Kind)
}

package database

import (
	"fmt"
	"strings"
)

// Dialect is a SQL flavour
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect resolves the names accepted in DB_TYPE and --dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", s)
	}
}

// QuoteIdentifier quotes a table or column name. Column names come straight
// from the dataset header, so they may contain spaces and punctuation.
func (d Dialect) QuoteIdentifier(name string) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d Dialect) quoteIdentifiers(names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = d.QuoteIdentifier(name)
	}
	return quoted
}

// Placeholder returns the bind parameter for the i-th (1-based) argument
func (d Dialect) Placeholder(i int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// TypeName maps a column kind to the dialect's column type
func (d Dialect) TypeName(kind ColumnKind) string {
	switch kind {
	case KindInteger:
		if d == DialectSQLite {
			return "INTEGER"
		}
		return "BIGINT"
	case KindReal:
		switch d {
		case DialectPostgres:
			return "DOUBLE PRECISION"
		case DialectMySQL:
			return "DOUBLE"
		default:
			return "REAL"
		}
	default:
		return "TEXT"
	}
}

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/koba/xcellab/internal/schema"
)

// sqlStore holds the dialect-independent table operations shared by every
// driver
type sqlStore struct {
	db      *sql.DB
	dialect Dialect
}

// Dialect returns the store's SQL dialect
func (s *sqlStore) Dialect() Dialect {
	return s.dialect
}

// Close closes the connection
func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqlStore) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, fmt.Errorf("not connected to %s", s.dialect)
	}
	return s.db, nil
}

// CreateTable creates the table, dropping any existing one first when replace is set
func (s *sqlStore) CreateTable(table Table, replace bool) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	ddl := NewDDLGenerator(s.dialect)
	if replace {
		if _, err := db.Exec(ddl.DropTable(table.Name)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table.Name, err)
		}
	}

	if _, err := db.Exec(ddl.CreateTable(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}
	return nil
}

// InsertRows inserts every row in a single transaction
func (s *sqlStore) InsertRows(table Table, rows []schema.Row) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(NewDMLGenerator(s.dialect).PreparedInsert(table))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.Exec(Args(table, row)...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("Inserted rows", "dialect", s.dialect, "table", table.Name, "rows", len(rows))
	return len(rows), nil
}

// TableColumns returns the column names of a table in declaration order
func (s *sqlStore) TableColumns(tableName string) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT 0", s.dialect.QuoteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to get columns of %s: %w", tableName, err)
	}
	defer rows.Close()

	return rows.Columns()
}

// GetTableData retrieves the rows of a table
func (s *sqlStore) GetTableData(tableName string, limit int) ([]schema.Row, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s", s.dialect.QuoteIdentifier(tableName))
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get table data: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var data []schema.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(schema.Row)
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = val
			}
		}

		data = append(data, row)
	}

	return data, rows.Err()
}

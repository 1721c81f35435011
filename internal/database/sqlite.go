package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite implements the Database interface for a SQLite file
type SQLite struct {
	sqlStore
	config Config
}

// NewSQLite creates a new SQLite database handle. config.Database is the file path.
func NewSQLite(config Config) *SQLite {
	return &SQLite{sqlStore: sqlStore{dialect: DialectSQLite}, config: config}
}

// Connect opens the SQLite file, creating its directory if needed
func (s *SQLite) Connect() error {
	if dir := filepath.Dir(s.config.Database); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping SQLite: %w", err)
	}

	s.db = db
	return nil
}

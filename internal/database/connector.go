package database

import (
	"fmt"
	"os"

	"github.com/koba/xcellab/internal/schema"
)

// Config holds database connection configuration
type Config struct {
	Type     string // "mysql", "postgres" or "sqlite"
	Host     string
	Port     string
	Database string // database name, or the file path for sqlite
	User     string
	Password string
}

// Database interface defines operations for pushing datasets into a database
type Database interface {
	Connect() error
	Close() error
	Dialect() Dialect
	CreateTable(table Table, replace bool) error
	InsertRows(table Table, rows []schema.Row) (int, error)
	GetTableData(tableName string, limit int) ([]schema.Row, error)
	TableColumns(tableName string) ([]string, error)
}

// NewDatabase creates a new database connection based on type
func NewDatabase(config Config) (Database, error) {
	dialect, err := ParseDialect(config.Type)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case DialectMySQL:
		return NewMySQL(config), nil
	case DialectPostgres:
		return NewPostgres(config), nil
	default:
		return NewSQLite(config), nil
	}
}

// LoadConfigFromEnv loads database configuration from environment variables
func LoadConfigFromEnv() (Config, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		return Config{}, fmt.Errorf("DB_TYPE environment variable is required")
	}
	dialect, err := ParseDialect(dbType)
	if err != nil {
		return Config{}, err
	}

	database := os.Getenv("DB_NAME")
	if database == "" {
		return Config{}, fmt.Errorf("DB_NAME environment variable is required")
	}

	if dialect == DialectSQLite {
		return Config{Type: string(dialect), Database: database}, nil
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}

	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")

	port := os.Getenv("DB_PORT")
	if port == "" {
		if dialect == DialectMySQL {
			port = "3306"
		} else {
			port = "5432"
		}
	}

	return Config{
		Type:     string(dialect),
		Host:     host,
		Port:     port,
		Database: database,
		User:     user,
		Password: password,
	}, nil
}

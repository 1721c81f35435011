package database

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL implements the Database interface for MySQL
type MySQL struct {
	sqlStore
	config Config
}

// NewMySQL creates a new MySQL database connection
func NewMySQL(config Config) *MySQL {
	return &MySQL{sqlStore: sqlStore{dialect: DialectMySQL}, config: config}
}

// DSN builds the driver connection string
func (m *MySQL) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = m.config.User
	cfg.Passwd = m.config.Password
	cfg.Net = "tcp"
	cfg.Addr = m.config.Host + ":" + m.config.Port
	cfg.DBName = m.config.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Connect establishes a connection to MySQL
func (m *MySQL) Connect() error {
	db, err := sql.Open("mysql", m.DSN())
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping MySQL: %w", err)
	}

	m.db = db
	return nil
}

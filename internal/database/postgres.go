package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres implements the Database interface for PostgreSQL
type Postgres struct {
	sqlStore
	config Config
}

// NewPostgres creates a new PostgreSQL database connection
func NewPostgres(config Config) *Postgres {
	return &Postgres{sqlStore: sqlStore{dialect: DialectPostgres}, config: config}
}

// DSN builds the driver connection string
func (p *Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		p.config.Host,
		p.config.Port,
		p.config.User,
		p.config.Password,
		p.config.Database,
	)
}

// Connect establishes a connection to PostgreSQL
func (p *Postgres) Connect() error {
	db, err := sql.Open("postgres", p.DSN())
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	p.db = db
	return nil
}

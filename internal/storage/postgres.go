package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	sqlRepository
}

// NewPostgresRepository migrates and connects to connStr, which must be a
// postgres:// URL.
func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	if err := Migrate("postgres", connStr); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &PostgresRepository{
		sqlRepository{db: db, rebind: dollarPlaceholders},
	}, nil
}

// Package storage implements the PostgreSQL persistence for users, the
// rewards catalogue, submissions and completed orders.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// pgx driver registration for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors mapped from database conditions.
var (
	ErrUserExists  = errors.New("user already exists")
	ErrNotFound    = errors.New("record not found")
	ErrAlreadyDone = errors.New("submission already resolved")
)

// Storage encapsulates the PostgreSQL connection and implements the data
// access methods used by the services.
type Storage struct {
	DB *sql.DB
}

// New opens a PostgreSQL connection and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.DB.Close()
}

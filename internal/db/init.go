package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
    name TEXT PRIMARY KEY,
    data BYTEA NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT now()
);
`

// InitPostgres opens a PostgreSQL connection and creates the documents table.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// SQLStore implements DocumentStore on a documents table.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB

	readQuery  string
	writeQuery string
}

// NewPostgresStore returns a SQLStore using PostgreSQL placeholders.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		DB:        db,
		readQuery: `SELECT data FROM documents WHERE name = $1`,
		writeQuery: `INSERT INTO documents (name, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	}
}

// Read returns the document stored under name.
func (s *SQLStore) Read(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.DB.QueryRowContext(ctx, s.readQuery, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	return data, nil
}

// Write upserts the document in a single statement.
func (s *SQLStore) Write(ctx context.Context, name string, data []byte) error {
	if _, err := s.DB.ExecContext(ctx, s.writeQuery, name, data); err != nil {
		return fmt.Errorf("write document %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.DB.Close()
}

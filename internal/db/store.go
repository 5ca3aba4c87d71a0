// Package db provides the storage backends that hold the board's persisted
// collections. Every backend stores whole documents: a read returns the last
// complete write and a write replaces the document in one step.
package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrDocumentNotFound is returned by Read when nothing has been stored under a name.
var ErrDocumentNotFound = errors.New("document not found")

// Document names used by the board.
const (
	TasksDocument = "tasks.json"
	UsersDocument = "users.json"
)

// Backend kinds accepted by Open.
const (
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// DocumentStore persists named byte documents.
type DocumentStore interface {
	// Read returns the stored document or ErrDocumentNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write replaces the stored document.
	Write(ctx context.Context, name string, data []byte) error
	// Close releases backend resources.
	Close() error
}

// Open creates the backend of the given kind. dataDir holds the file and
// SQLite backends; dsn is used by postgres.
func Open(kind, dataDir, dsn string) (DocumentStore, error) {
	switch kind {
	case KindFile, "":
		return NewFileStore(dataDir), nil
	case KindSQLite:
		conn, err := InitSQLite(filepath.Join(dataDir, "board.db"))
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(conn), nil
	case KindPostgres:
		conn, err := InitPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(conn), nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}

package repository

import (
	"context"
	"errors"

	"github.com/atinyakov/GophBoard/internal/db"
)

// mockStore is an in-memory db.DocumentStore with injectable failures.
type mockStore struct {
	docs     map[string][]byte
	readErr  error
	writeErr error
	writes   int
}

func newMockStore() *mockStore {
	return &mockStore{docs: map[string][]byte{}}
}

func (m *mockStore) Read(_ context.Context, name string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.docs[name]
	if !ok {
		return nil, db.ErrDocumentNotFound
	}
	return data, nil
}

func (m *mockStore) Write(_ context.Context, name string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.docs[name] = data
	return nil
}

func (m *mockStore) Close() error { return nil }

var errBoom = errors.New("boom")

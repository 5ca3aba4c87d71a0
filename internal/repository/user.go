// Package repository maps the board's collections onto a document store.
// Loading is lenient: absent, unreadable or malformed documents yield an
// empty collection instead of an error.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/GophBoard/internal/db"
	"github.com/atinyakov/GophBoard/internal/models"
)

// UserRepository persists the user collection as one document.
type UserRepository struct {
	store db.DocumentStore
	log   *zap.Logger
}

// NewUserRepository creates a UserRepository over store.
func NewUserRepository(store db.DocumentStore, log *zap.Logger) *UserRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserRepository{store: store, log: log}
}

// Load returns the persisted users. Records without a username are dropped
// and only the first record for each username is kept.
func (r *UserRepository) Load(ctx context.Context) []models.User {
	data, ok := readDocument(ctx, r.store, db.UsersDocument, r.log)
	if !ok {
		return []models.User{}
	}

	var raw []*models.User
	if err := json.Unmarshal(data, &raw); err != nil {
		r.log.Warn("malformed users document, starting empty", zap.Error(err))
		return []models.User{}
	}

	users := make([]models.User, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, u := range raw {
		if u == nil || u.Username == "" {
			continue
		}
		if _, dup := seen[u.Username]; dup {
			r.log.Warn("duplicate username in users document", zap.String("username", u.Username))
			continue
		}
		seen[u.Username] = struct{}{}
		users = append(users, *u)
	}
	return users
}

// Save overwrites the persisted users.
func (r *UserRepository) Save(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := r.store.Write(ctx, db.UsersDocument, data); err != nil {
		r.log.Error("failed to save users", zap.Error(err))
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// readDocument fetches name from store, logging and reporting false when it
// is absent or unreadable.
func readDocument(ctx context.Context, store db.DocumentStore, name string, log *zap.Logger) ([]byte, bool) {
	data, err := store.Read(ctx, name)
	if errors.Is(err, db.ErrDocumentNotFound) {
		return nil, false
	}
	if err != nil {
		log.Error("failed to read document, starting empty", zap.String("document", name), zap.Error(err))
		return nil, false
	}
	return data, true
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/permission"
	"github.com/atinyakov/GophBoard/internal/session"
)

// UserLookup resolves a username to its stored record.
type UserLookup interface {
	Lookup(ctx context.Context, username string) (*models.User, error)
}

// authorize checks op against the stored role of the session's user and
// refreshes the session with that record. A user that no longer exists is
// logged out.
func authorize(ctx context.Context, users UserLookup, sess *session.Session, op permission.Operation) (*models.User, error) {
	current := sess.CurrentUser()
	if current == nil {
		return nil, fmt.Errorf("%w: not logged in", ErrPermissionDenied)
	}

	stored, err := users.Lookup(ctx, current.Username)
	if errors.Is(err, ErrNotFound) {
		sess.Refresh(nil)
		return nil, fmt.Errorf("%w: account no longer exists", ErrPermissionDenied)
	}
	if err != nil {
		return nil, err
	}
	sess.Refresh(stored)

	if !permission.Allowed(stored, op) {
		return nil, fmt.Errorf("%w: %s requires a higher role than %s", ErrPermissionDenied, op, stored.Permission)
	}
	return stored, nil
}

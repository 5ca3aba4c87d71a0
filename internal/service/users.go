// Package service implements the board's business rules on top of the
// repositories: account management, authorization and task mutations.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/password"
	"github.com/atinyakov/GophBoard/internal/permission"
	"github.com/atinyakov/GophBoard/internal/session"
)

// AdminPassword is the fixed password of the administrator account. It is
// restored on every load.
const AdminPassword = "admin"

// UserRepository defines the persistence operations required by UserService.
type UserRepository interface {
	// Load returns the stored users, or an empty slice when none can be read.
	Load(ctx context.Context) []models.User
	// Save overwrites the stored users.
	Save(ctx context.Context, users []models.User) error
}

// UserService manages accounts and keeps the administrator account intact.
// Read-modify-write cycles on the user collection run one at a time.
type UserService struct {
	mu   sync.Mutex
	repo UserRepository
	log  *zap.Logger
}

// NewUserService constructs a UserService over repo.
func NewUserService(repo UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{repo: repo, log: log}
}

// Load returns all users after enforcing the administrator account. When
// the account had to be repaired the corrected set is saved; a failed save
// is logged and the corrected set is still returned.
func (s *UserService) Load(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *UserService) load(ctx context.Context) ([]models.User, error) {
	users := s.repo.Load(ctx)
	users, changed, err := EnsureAdmin(users)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info("administrator account restored")
		if err := s.repo.Save(ctx, users); err != nil {
			s.log.Error("failed to persist administrator account", zap.Error(err))
		}
	}
	return users, nil
}

// EnsureAdmin guarantees that users contains the administrator account with
// the fixed password and the Admin role. It reports whether anything had
// to change.
func EnsureAdmin(users []models.User) ([]models.User, bool, error) {
	digest, err := password.Hash(AdminPassword)
	if err != nil {
		return users, false, err
	}

	for i := range users {
		u := &users[i]
		if u.Username != models.AdminUsername {
			continue
		}
		changed := false
		if u.Permission != models.Admin {
			u.Permission = models.Admin
			changed = true
		}
		if u.HashedPassword != digest {
			u.HashedPassword = digest
			changed = true
		}
		return users, changed, nil
	}

	users = append(users, models.User{
		Username:       models.AdminUsername,
		HashedPassword: digest,
		Permission:     models.Admin,
	})
	return users, true, nil
}

// Register creates a ReadOnly account. The administrator name is reserved
// regardless of case; other names are compared case-sensitively. Leading and
// trailing whitespace is not part of a username.
func (s *UserService) Register(ctx context.Context, username, plaintext string) error {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return validationError("username and password are required")
	}
	if strings.EqualFold(username, models.AdminUsername) {
		return ErrReservedUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == username {
			return ErrUsernameTaken
		}
	}

	digest, err := password.Hash(plaintext)
	if err != nil {
		return err
	}
	users = append(users, models.User{
		Username:       username,
		HashedPassword: digest,
		Permission:     models.ReadOnly,
	})
	if err := s.repo.Save(ctx, users); err != nil {
		return persistenceError(err)
	}
	s.log.Info("user registered", zap.String("username", username))
	return nil
}

// UpdatePermission changes the role of targetUsername on behalf of an actor.
// Only admins may do it, the administrator account cannot be changed, and
// nobody may change their own role.
func (s *UserService) UpdatePermission(
	ctx context.Context,
	actorRole models.Permission,
	actingUsername string,
	targetUsername string,
	newPermission models.Permission,
) error {
	if !permission.RoleAllows(actorRole, permission.ManageUsers) {
		return fmt.Errorf("%w: only administrators can change permissions", ErrPermissionDenied)
	}
	if targetUsername == models.AdminUsername {
		return fmt.Errorf("%w: the administrator account cannot be changed", ErrPermissionDenied)
	}
	if targetUsername == actingUsername {
		return fmt.Errorf("%w: users cannot change their own permission", ErrPermissionDenied)
	}
	if !newPermission.Valid() {
		return validationError("unknown permission %d", int(newPermission))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range users {
		if users[i].Username == targetUsername {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: user %q", ErrNotFound, targetUsername)
	}

	users[idx].Permission = newPermission
	if err := s.repo.Save(ctx, users); err != nil {
		return persistenceError(err)
	}
	s.log.Info("permission updated",
		zap.String("actor", actingUsername),
		zap.String("username", targetUsername),
		zap.Stringer("permission", newPermission),
	)
	return nil
}

// UpdateUserPermission is UpdatePermission with the actor taken from sess.
func (s *UserService) UpdateUserPermission(ctx context.Context, sess *session.Session, targetUsername string, newPermission models.Permission) error {
	actor, err := s.authorize(ctx, sess, permission.ManageUsers)
	if err != nil {
		return err
	}
	return s.UpdatePermission(ctx, actor.Permission, actor.Username, targetUsername, newPermission)
}

// ListUsers returns every account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, sess *session.Session) ([]models.User, error) {
	if _, err := s.authorize(ctx, sess, permission.ManageUsers); err != nil {
		return nil, err
	}
	return s.Load(ctx)
}

// GetUserByUsername returns one account. Admin only.
func (s *UserService) GetUserByUsername(ctx context.Context, sess *session.Session, username string) (*models.User, error) {
	if _, err := s.authorize(ctx, sess, permission.ManageUsers); err != nil {
		return nil, err
	}
	return s.Lookup(ctx, username)
}

// Lookup returns the stored record for username without authorization.
func (s *UserService) Lookup(ctx context.Context, username string) (*models.User, error) {
	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
}

// authorize resolves the session's user against the stored record so that
// role changes apply immediately, then consults the permission gate.
func (s *UserService) authorize(ctx context.Context, sess *session.Session, op permission.Operation) (*models.User, error) {
	return authorize(ctx, s, sess, op)
}

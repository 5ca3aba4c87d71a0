// Package http provides the JSON API of the board: account handling, task
// operations and user administration.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/GophBoard/internal/middleware"
	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/permission"
	"github.com/atinyakov/GophBoard/internal/service"
	"github.com/atinyakov/GophBoard/internal/session"
)

// AuthService defines the account operations required by AuthHandler.
type AuthService interface {
	// Load returns every stored user; it is what sessions authenticate against.
	Load(ctx context.Context) ([]models.User, error)
	// Register creates a read-only account.
	Register(ctx context.Context, username, password string) error
	// Lookup returns the stored record of one user.
	Lookup(ctx context.Context, username string) (*models.User, error)
}

// SessionManager issues and resolves bearer tokens.
type SessionManager interface {
	Open(s *session.Session) string
	Lookup(token string) (*session.Session, bool)
	Close(token string)
}

// AuthHandler handles registration, login, logout and the current-user view.
type AuthHandler struct {
	AuthService AuthService
	Sessions    SessionManager
}

// CredentialsRequest is the JSON payload of register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest adds the length rules that apply to new accounts.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
}

func (r *CredentialsRequest) normalize() { r.Username = strings.TrimSpace(r.Username) }

func (r *RegisterRequest) normalize() { r.Username = strings.TrimSpace(r.Username) }

// UserResponse describes an account without its password hash.
type UserResponse struct {
	Username     string          `json:"username"`
	Permission   string          `json:"permission"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	UserResponse
}

func newUserResponse(u *models.User, withCapabilities bool) UserResponse {
	resp := UserResponse{Username: u.Username, Permission: u.Permission.String()}
	if withCapabilities {
		resp.Capabilities = permission.Capabilities(u)
	}
	return resp
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request: username needs 3+ characters and password 4+", http.StatusBadRequest)
		return
	}
	if err := h.AuthService.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{Username: req.Username, Permission: models.ReadOnly.String()})
}

// Login handles POST /api/login and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	sess := session.New()
	if err := sess.Login(r.Context(), h.AuthService, req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}
	token := h.Sessions.Open(sess)
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:        token,
		UserResponse: newUserResponse(sess.CurrentUser(), true),
	})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Close(middleware.TokenFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me. The stored record is consulted so a role change
// made by an administrator shows up immediately.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	current := sess.CurrentUser()
	if current == nil {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	stored, err := h.AuthService.Lookup(r.Context(), current.Username)
	if errors.Is(err, service.ErrNotFound) {
		h.Sessions.Close(middleware.TokenFromContext(r.Context()))
		http.Error(w, "account no longer exists", http.StatusUnauthorized)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Refresh(stored)
	writeJSON(w, http.StatusOK, newUserResponse(stored, true))
}

package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/GophBoard/internal/middleware"
	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/session"
)

// UserAdminService defines the administration operations required by
// UserHandler.
type UserAdminService interface {
	ListUsers(ctx context.Context, sess *session.Session) ([]models.User, error)
	GetUserByUsername(ctx context.Context, sess *session.Session, username string) (*models.User, error)
	UpdateUserPermission(ctx context.Context, sess *session.Session, target string, perm models.Permission) error
}

// UserHandler serves the admin-only /api/users endpoints.
type UserHandler struct {
	UserService UserAdminService
}

// PermissionRequest is the payload of PUT /api/users/{username}/permission.
type PermissionRequest struct {
	Permission string `json:"permission" validate:"required,oneof=READ_ONLY PERMITTED ADMIN"`
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i], false)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/users/{username}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.GetUserByUsername(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u, true))
}

// SetPermission handles PUT /api/users/{username}/permission.
func (h *UserHandler) SetPermission(w http.ResponseWriter, r *http.Request) {
	var req PermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	perm, err := models.ParsePermission(req.Permission)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target := chi.URLParam(r, "username")
	if err := h.UserService.UpdateUserPermission(r.Context(), middleware.SessionFromContext(r.Context()), target, perm); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Username: target, Permission: perm.String()})
}

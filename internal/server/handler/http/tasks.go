package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/GophBoard/internal/middleware"
	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/ordering"
	"github.com/atinyakov/GophBoard/internal/service"
	"github.com/atinyakov/GophBoard/internal/session"
)

// BoardService defines the task operations required by TaskHandler.
type BoardService interface {
	AllTasks(ctx context.Context, sess *session.Session) ([]*models.Task, error)
	TaskByID(ctx context.Context, sess *session.Session, id string) (*models.Task, error)
	CreateTask(ctx context.Context, sess *session.Session, title, description string, status models.Status) (*models.Task, error)
	UpdateTaskFields(ctx context.Context, sess *session.Session, id string, upd service.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, sess *session.Session, id string) error
	MoveToStatusEnd(ctx context.Context, sess *session.Session, id string, target models.Status) (*models.Task, error)
	MoveRelativeTo(ctx context.Context, sess *session.Session, draggedID, targetID string, placeBefore bool) (*models.Task, error)
	AddLabel(ctx context.Context, sess *session.Session, id, label string) (*models.Task, error)
	AddComment(ctx context.Context, sess *session.Session, id, text string) (*models.Comment, error)
	SetBackgroundColor(ctx context.Context, sess *session.Session, id string, color models.BackgroundColor) (*models.Task, error)
}

// TaskHandler serves the /api/tasks endpoints.
type TaskHandler struct {
	BoardService BoardService
}

// CreateTaskRequest is the payload of POST /api/tasks. Status defaults to
// BACKLOG.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is the payload of PATCH /api/tasks/{id}. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	IssueDescription *string `json:"issueDescription"`
}

// MoveRequest is the payload of POST /api/tasks/{id}/move.
type MoveRequest struct {
	Status string `json:"status" validate:"required"`
}

// DropRequest is the payload of POST /api/tasks/{id}/drop.
type DropRequest struct {
	TargetID string `json:"targetId" validate:"required"`
	Position string `json:"position" validate:"required,oneof=before after"`
}

// LabelRequest is the payload of POST /api/tasks/{id}/labels.
type LabelRequest struct {
	Label string `json:"label" validate:"required"`
}

// CommentRequest is the payload of POST /api/tasks/{id}/comments.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ColorRequest is the payload of PUT /api/tasks/{id}/color.
type ColorRequest struct {
	Color string `json:"color" validate:"required"`
}

// List handles GET /api/tasks. An optional ?status= narrows the result to
// one column.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.BoardService.AllTasks(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if name := r.URL.Query().Get("status"); name != "" {
		status, err := models.ParseStatus(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tasks = ordering.Column(tasks, status)
		if tasks == nil {
			tasks = []*models.Task{}
		}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.BoardService.TaskByID(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	status := models.StatusBacklog
	if req.Status != "" {
		var err error
		if status, err = models.ParseStatus(req.Status); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	task, err := h.BoardService.CreateTask(r.Context(), middleware.SessionFromContext(r.Context()), req.Title, req.Description, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Update handles PATCH /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	upd := service.TaskUpdate{
		Title:            req.Title,
		Description:      req.Description,
		IssueDescription: req.IssueDescription,
	}
	task, err := h.BoardService.UpdateTaskFields(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.BoardService.DeleteTask(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /api/tasks/{id}/move: the task goes to the bottom of
// the given column.
func (h *TaskHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.BoardService.MoveToStatusEnd(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Drop handles POST /api/tasks/{id}/drop: the task is placed before or
// after another card.
func (h *TaskHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req DropRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	task, err := h.BoardService.MoveRelativeTo(r.Context(), middleware.SessionFromContext(r.Context()),
		chi.URLParam(r, "id"), req.TargetID, req.Position == "before")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// AddLabel handles POST /api/tasks/{id}/labels.
func (h *TaskHandler) AddLabel(w http.ResponseWriter, r *http.Request) {
	var req LabelRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	task, err := h.BoardService.AddLabel(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"), req.Label)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// AddComment handles POST /api/tasks/{id}/comments.
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	comment, err := h.BoardService.AddComment(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// SetColor handles PUT /api/tasks/{id}/color.
func (h *TaskHandler) SetColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	color, err := models.ParseColor(req.Color)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.BoardService.SetBackgroundColor(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"), color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

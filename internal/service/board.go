package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/ordering"
	"github.com/atinyakov/GophBoard/internal/permission"
	"github.com/atinyakov/GophBoard/internal/session"
)

// TaskRepository defines the persistence operations required by BoardService.
type TaskRepository interface {
	// Load returns the stored tasks in order, never failing.
	Load(ctx context.Context) []*models.Task
	// Save overwrites the stored tasks.
	Save(ctx context.Context, tasks []*models.Task) error
}

// TaskUpdate carries the editable text fields of a task. Nil fields are
// left unchanged.
type TaskUpdate struct {
	Title            *string
	Description      *string
	IssueDescription *string
}

// BoardService owns the in-memory task list and applies every change
// through the permission gate and the ordering engine before saving.
type BoardService struct {
	mu    sync.Mutex
	tasks []*models.Task

	repo  TaskRepository
	users UserLookup
	log   *zap.Logger

	newID func() string
	now   func() models.LocalTime
}

// NewBoardService loads the task list from repo. Lists written by older
// versions are re-sorted by status, keeping the order inside each column.
func NewBoardService(ctx context.Context, repo TaskRepository, users UserLookup, log *zap.Logger) *BoardService {
	if log == nil {
		log = zap.NewNop()
	}
	tasks := repo.Load(ctx)
	if !ordering.IsBucketSorted(tasks) {
		log.Warn("task list out of column order, normalizing", zap.Int("count", len(tasks)))
		tasks = ordering.Normalize(tasks)
	}
	return &BoardService{
		tasks: tasks,
		repo:  repo,
		users: users,
		log:   log,
		newID: uuid.NewString,
		now:   models.Now,
	}
}

// AllTasks returns copies of every task in board order.
func (s *BoardService) AllTasks(ctx context.Context, sess *session.Session) ([]*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.ViewTask); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

// TaskByID returns a copy of the task with the given id.
func (s *BoardService) TaskByID(ctx context.Context, sess *session.Session, id string) (*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.ViewTask); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// CreateTask adds a task at the bottom of its column.
func (s *BoardService) CreateTask(ctx context.Context, sess *session.Session, title, description string, status models.Status) (*models.Task, error) {
	actor, err := authorize(ctx, s.users, sess, permission.CreateTask)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if !status.Valid() {
		return nil, validationError("unknown status %d", int(status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := &models.Task{
		ID:              s.newID(),
		Title:           title,
		Description:     description,
		Labels:          []string{},
		BackgroundColor: models.DefaultColor,
		CreationDate:    s.now(),
		Comments:        []models.Comment{},
		Status:          status,
	}
	s.tasks = ordering.InsertAtStatusEnd(s.tasks, task)
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.log.Info("task created",
		zap.String("id", task.ID),
		zap.Stringer("status", status),
		zap.String("user", actor.Username),
	)
	return task.Clone(), nil
}

// UpdateTaskFields edits the text fields of a task.
func (s *BoardService) UpdateTaskFields(ctx context.Context, sess *session.Session, id string, upd TaskUpdate) (*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.EditTask); err != nil {
		return nil, err
	}
	var title string
	if upd.Title != nil {
		title = strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, validationError("title cannot be empty")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		t.Title = title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.IssueDescription != nil {
		t.IssueDescription = *upd.IssueDescription
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// DeleteTask removes a task from the board.
func (s *BoardService) DeleteTask(ctx context.Context, sess *session.Session, id string) error {
	actor, err := authorize(ctx, s.users, sess, permission.DeleteTask)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rest, idx := ordering.Remove(s.tasks, id)
	if idx < 0 {
		return fmt.Errorf("%w: task %q", ErrNotFound, id)
	}
	s.tasks = rest
	if err := s.save(ctx); err != nil {
		return err
	}
	s.log.Info("task deleted", zap.String("id", id), zap.String("user", actor.Username))
	return nil
}

// MoveToStatusEnd moves a task to the bottom of the target column.
func (s *BoardService) MoveToStatusEnd(ctx context.Context, sess *session.Session, id string, target models.Status) (*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.MoveTask); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, validationError("unknown status %d", int(target))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	tasks, err := ordering.MoveToStatusEnd(s.tasks, t, target)
	if err != nil {
		return nil, fmt.Errorf("%w: task %q", ErrNotFound, id)
	}
	s.tasks = tasks
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// MoveRelativeTo drops the dragged task directly before or after the
// target task, taking over the target's status.
func (s *BoardService) MoveRelativeTo(ctx context.Context, sess *session.Session, draggedID, targetID string, placeBefore bool) (*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.MoveTask); err != nil {
		return nil, err
	}
	if draggedID == targetID {
		return nil, ErrSelfDrop
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dragged, err := s.find(draggedID)
	if err != nil {
		return nil, err
	}
	target, err := s.find(targetID)
	if err != nil {
		return nil, err
	}
	tasks, err := ordering.MoveRelativeTo(s.tasks, dragged, target, placeBefore)
	switch {
	case errors.Is(err, ordering.ErrSelfDrop):
		return nil, ErrSelfDrop
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	s.tasks = tasks
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return dragged.Clone(), nil
}

// AddLabel appends a label to a task. Labels are trimmed and must be
// unique within the task.
func (s *BoardService) AddLabel(ctx context.Context, sess *session.Session, id, label string) (*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.AddLabel); err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, validationError("label cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if t.HasLabel(label) {
		return nil, ErrDuplicateLabel
	}
	t.Labels = append(t.Labels, label)
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// AddComment appends a comment stamped with the current time.
func (s *BoardService) AddComment(ctx context.Context, sess *session.Session, id, text string) (*models.Comment, error) {
	if _, err := authorize(ctx, s.users, sess, permission.AddComment); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("comment cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	c := models.Comment{ID: s.newID(), Text: text, Timestamp: s.now()}
	t.Comments = append(t.Comments, c)
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetBackgroundColor changes the card color of a task.
func (s *BoardService) SetBackgroundColor(ctx context.Context, sess *session.Session, id string, color models.BackgroundColor) (*models.Task, error) {
	if _, err := authorize(ctx, s.users, sess, permission.SetColor); err != nil {
		return nil, err
	}
	if !color.Valid() {
		return nil, validationError("unknown background color %d", int(color))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	t.BackgroundColor = color
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// find returns the live task with id. Callers hold s.mu.
func (s *BoardService) find(id string) (*models.Task, error) {
	i := ordering.IndexOf(s.tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: task %q", ErrNotFound, id)
	}
	return s.tasks[i], nil
}

// save persists the whole list. The in-memory change is kept when saving
// fails.
func (s *BoardService) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.tasks); err != nil {
		return persistenceError(err)
	}
	return nil
}

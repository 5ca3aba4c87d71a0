package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/GophBoard/internal/db"
	"github.com/atinyakov/GophBoard/internal/models"
)

// TaskRepository persists the ordered task collection as one document.
type TaskRepository struct {
	store db.DocumentStore
	log   *zap.Logger

	// NewID and Now supply defaults for records missing an id or timestamp.
	NewID func() string
	Now   func() models.LocalTime
}

// NewTaskRepository creates a TaskRepository over store.
func NewTaskRepository(store db.DocumentStore, log *zap.Logger) *TaskRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskRepository{
		store: store,
		log:   log,
		NewID: uuid.NewString,
		Now:   models.Now,
	}
}

// Load returns the persisted tasks in stored order with defaults filled in
// for every missing field. Defaults are applied in memory only.
func (r *TaskRepository) Load(ctx context.Context) []*models.Task {
	data, ok := readDocument(ctx, r.store, db.TasksDocument, r.log)
	if !ok {
		return []*models.Task{}
	}

	var raw []*models.Task
	if err := json.Unmarshal(data, &raw); err != nil {
		r.log.Warn("malformed tasks document, starting empty", zap.Error(err))
		return []*models.Task{}
	}

	tasks := make([]*models.Task, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		if t == nil {
			continue
		}
		r.fillDefaults(t)
		if _, dup := seen[t.ID]; dup {
			r.log.Warn("duplicate task id, assigning a new one", zap.String("id", t.ID))
			t.ID = r.NewID()
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks
}

func (r *TaskRepository) fillDefaults(t *models.Task) {
	if t.ID == "" {
		t.ID = r.NewID()
	}
	t.Labels = uniqueLabels(t.Labels)
	if t.Comments == nil {
		t.Comments = []models.Comment{}
	}
	if !t.BackgroundColor.Valid() {
		t.BackgroundColor = models.DefaultColor
	}
	if t.CreationDate.IsZero() {
		t.CreationDate = r.Now()
	}
	if !t.Status.Valid() {
		t.Status = models.StatusBacklog
	}

	comments := t.Comments[:0]
	seen := make(map[string]struct{}, len(t.Comments))
	for _, c := range t.Comments {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		if _, dup := seen[c.ID]; c.ID == "" || dup {
			c.ID = r.NewID()
		}
		seen[c.ID] = struct{}{}
		if c.Timestamp.IsZero() {
			c.Timestamp = r.Now()
		}
		comments = append(comments, c)
	}
	t.Comments = comments
}

// Save overwrites the persisted tasks, keeping their order.
func (r *TaskRepository) Save(ctx context.Context, tasks []*models.Task) error {
	if tasks == nil {
		tasks = []*models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := r.store.Write(ctx, db.TasksDocument, data); err != nil {
		r.log.Error("failed to save tasks", zap.Error(err), zap.Int("count", len(tasks)))
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// uniqueLabels trims labels and drops blank or repeated ones, keeping first
// occurrences in order.
func uniqueLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/ordering"
	"github.com/atinyakov/GophBoard/internal/permission"
	"github.com/atinyakov/GophBoard/internal/session"
)

func titles(tasks []*models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestBoard_PromotionTakesEffectWithoutRelogin(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, users.Register(ctx, "alice", "alice-pw"))
	alice := login(t, users, "alice", "alice-pw")

	_, err := board.CreateTask(ctx, alice, "X", "Y", models.StatusBacklog)
	require.ErrorIs(t, err, ErrPermissionDenied)

	admin := login(t, users, "admin", AdminPassword)
	require.NoError(t, users.UpdateUserPermission(ctx, admin, "alice", models.Permitted))

	created, err := board.CreateTask(ctx, alice, "X", "Y", models.StatusBacklog)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBacklog, created.Status)
	assert.Equal(t, models.Permitted, alice.CurrentUser().Permission)

	all, err := board.AllTasks(ctx, alice)
	require.NoError(t, err)
	backlog := ordering.Column(all, models.StatusBacklog)
	require.NotEmpty(t, backlog)
	assert.Equal(t, created.ID, backlog[len(backlog)-1].ID)
}

func TestBoard_MoveRelativeToBeforeFirst(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	ids := map[string]string{}
	for _, title := range []string{"A", "B", "C"} {
		task, err := board.CreateTask(ctx, writer, title, "", models.StatusTodo)
		require.NoError(t, err)
		ids[title] = task.ID
	}

	moved, err := board.MoveRelativeTo(ctx, writer, ids["C"], ids["A"], true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, moved.Status)

	all, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(all))
	for _, task := range all {
		assert.Equal(t, models.StatusTodo, task.Status)
	}
}

func TestBoard_SelfDropLeavesBoardUntouched(t *testing.T) {
	board, users, repo, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	task, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	require.NoError(t, err)
	before, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	saves := repo.saves

	_, err = board.MoveRelativeTo(ctx, writer, task.ID, task.ID, false)
	assert.ErrorIs(t, err, ErrSelfDrop)
	assert.ErrorIs(t, err, ErrValidation)

	after, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, saves, repo.saves)
}

func TestBoard_ReadOnlyDeniedEveryMutation(t *testing.T) {
	existing := &models.Task{ID: "t1", Title: "T", Labels: []string{}, Comments: []models.Comment{}, Status: models.StatusTodo}
	other := &models.Task{ID: "t2", Title: "U", Labels: []string{}, Comments: []models.Comment{}, Status: models.StatusDone}
	board, users, repo, _ := newFixture(t, existing, other)
	ctx := context.Background()
	reader := login(t, users, "reader", "pw")
	title := "new"

	calls := map[string]func() error{
		"create": func() error { _, err := board.CreateTask(ctx, reader, "x", "", models.StatusTodo); return err },
		"edit":   func() error { _, err := board.UpdateTaskFields(ctx, reader, "t1", TaskUpdate{Title: &title}); return err },
		"delete": func() error { return board.DeleteTask(ctx, reader, "t1") },
		"move":   func() error { _, err := board.MoveToStatusEnd(ctx, reader, "t1", models.StatusDone); return err },
		"drop":   func() error { _, err := board.MoveRelativeTo(ctx, reader, "t1", "t2", true); return err },
		"label":  func() error { _, err := board.AddLabel(ctx, reader, "t1", "bug"); return err },
		"comment": func() error {
			_, err := board.AddComment(ctx, reader, "t1", "hi")
			return err
		},
		"color": func() error { _, err := board.SetBackgroundColor(ctx, reader, "t1", models.ColorLightPink); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrPermissionDenied)
		})
	}
	assert.Zero(t, repo.saves)

	got, err := board.TaskByID(ctx, reader, "t1")
	require.NoError(t, err, "read-only users can view")
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, models.StatusTodo, got.Status)
}

func TestBoard_NoSessionDeniesEverything(t *testing.T) {
	board, _, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := board.AllTasks(ctx, session.New())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = board.AllTasks(ctx, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = board.CreateTask(ctx, nil, "x", "", models.StatusBacklog)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestBoard_DeletedAccountIsLoggedOut(t *testing.T) {
	board, users, _, userRepo := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	var kept []models.User
	for _, u := range userRepo.users {
		if u.Username != "writer" {
			kept = append(kept, u)
		}
	}
	userRepo.users = kept

	_, err := board.AllTasks(ctx, writer)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, writer.LoggedIn())
}

func TestBoard_CreateTask(t *testing.T) {
	board, users, repo, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	_, err := board.CreateTask(ctx, writer, "   ", "", models.StatusTodo)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = board.CreateTask(ctx, writer, "x", "", models.Status(42))
	assert.ErrorIs(t, err, ErrValidation)

	for _, s := range []models.Status{models.StatusDone, models.StatusBacklog, models.StatusInReview, models.StatusBacklog} {
		_, err := board.CreateTask(ctx, writer, s.String(), "", s)
		require.NoError(t, err)
	}
	all, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, []string{"BACKLOG", "BACKLOG", "IN_REVIEW", "DONE"}, titles(all))
	assert.True(t, ordering.IsBucketSorted(all))

	task := all[0]
	assert.Equal(t, models.DefaultColor, task.BackgroundColor)
	assert.NotNil(t, task.Labels)
	assert.NotNil(t, task.Comments)
	assert.False(t, task.CreationDate.IsZero())

	require.Len(t, repo.tasks, 4)
	assert.Equal(t, titles(all), titles(repo.tasks))
}

func TestBoard_QueriesReturnCopies(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	created, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	require.NoError(t, err)

	got, err := board.TaskByID(ctx, writer, created.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Labels = append(got.Labels, "leak")

	again, err := board.TaskByID(ctx, writer, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Title)
	assert.Empty(t, again.Labels)

	_, err = board.TaskByID(ctx, writer, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_UpdateTaskFields(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	created, err := board.CreateTask(ctx, writer, "A", "short", models.StatusTodo)
	require.NoError(t, err)

	issue := "long form"
	got, err := board.UpdateTaskFields(ctx, writer, created.ID, TaskUpdate{IssueDescription: &issue})
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "short", got.Description)
	assert.Equal(t, "long form", got.IssueDescription)

	blank := " "
	_, err = board.UpdateTaskFields(ctx, writer, created.ID, TaskUpdate{Title: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	title := "B"
	_, err = board.UpdateTaskFields(ctx, writer, "missing", TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_DeleteTask(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	a, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	require.NoError(t, err)
	_, err = board.CreateTask(ctx, writer, "B", "", models.StatusTodo)
	require.NoError(t, err)

	require.NoError(t, board.DeleteTask(ctx, writer, a.ID))
	assert.ErrorIs(t, board.DeleteTask(ctx, writer, a.ID), ErrNotFound)

	all, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(all))
}

func TestBoard_MoveToStatusEnd(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	ids := map[string]string{}
	for _, c := range []struct {
		title  string
		status models.Status
	}{
		{"A", models.StatusTodo},
		{"B", models.StatusTodo},
		{"C", models.StatusInProgress},
		{"D", models.StatusDone},
	} {
		task, err := board.CreateTask(ctx, writer, c.title, "", c.status)
		require.NoError(t, err)
		ids[c.title] = task.ID
	}

	moved, err := board.MoveToStatusEnd(ctx, writer, ids["A"], models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, moved.Status)

	_, err = board.MoveToStatusEnd(ctx, writer, ids["D"], models.StatusInReview)
	require.NoError(t, err)

	all, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(all))
	assert.True(t, ordering.IsBucketSorted(all))

	_, err = board.MoveToStatusEnd(ctx, writer, "missing", models.StatusDone)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = board.MoveToStatusEnd(ctx, writer, ids["B"], models.Status(-3))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBoard_MoveRelativeToAcrossColumns(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	a, err := board.CreateTask(ctx, writer, "A", "", models.StatusBacklog)
	require.NoError(t, err)
	b, err := board.CreateTask(ctx, writer, "B", "", models.StatusDone)
	require.NoError(t, err)
	c, err := board.CreateTask(ctx, writer, "C", "", models.StatusDone)
	require.NoError(t, err)

	moved, err := board.MoveRelativeTo(ctx, writer, a.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, moved.Status)

	all, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, titles(all))

	_, err = board.MoveRelativeTo(ctx, writer, c.ID, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_AddLabel(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")
	task, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	require.NoError(t, err)

	got, err := board.AddLabel(ctx, writer, task.ID, "  bug ")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug"}, got.Labels)

	_, err = board.AddLabel(ctx, writer, task.ID, "bug")
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = board.AddLabel(ctx, writer, task.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	got, err = board.AddLabel(ctx, writer, task.ID, "ui")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug", "ui"}, got.Labels)
}

func TestBoard_AddComment(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")
	task, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	require.NoError(t, err)

	c, err := board.AddComment(ctx, writer, task.ID, " looks good ")
	require.NoError(t, err)
	assert.Equal(t, "looks good", c.Text)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.Timestamp.IsZero())

	_, err = board.AddComment(ctx, writer, task.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := board.TaskByID(ctx, writer, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, c.ID, got.Comments[0].ID)
}

func TestBoard_SetBackgroundColor(t *testing.T) {
	board, users, _, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")
	task, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	require.NoError(t, err)

	got, err := board.SetBackgroundColor(ctx, writer, task.ID, models.ColorLightGreen)
	require.NoError(t, err)
	assert.Equal(t, models.ColorLightGreen, got.BackgroundColor)

	_, err = board.SetBackgroundColor(ctx, writer, task.ID, models.BackgroundColor(99))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBoard_SaveFailureKeepsInMemoryChange(t *testing.T) {
	board, users, repo, _ := newFixture(t)
	ctx := context.Background()
	writer := login(t, users, "writer", "pw")

	repo.SaveFunc = func(ctx context.Context, tasks []*models.Task) error {
		return errors.New("disk full")
	}
	_, err := board.CreateTask(ctx, writer, "A", "", models.StatusTodo)
	assert.ErrorIs(t, err, ErrPersistence)

	all, err := board.AllTasks(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(all))
}

func TestBoard_LoadNormalizesColumnOrder(t *testing.T) {
	legacy := []*models.Task{
		{ID: "1", Title: "done-1", Status: models.StatusDone},
		{ID: "2", Title: "todo-1", Status: models.StatusTodo},
		{ID: "3", Title: "done-2", Status: models.StatusDone},
		{ID: "4", Title: "todo-2", Status: models.StatusTodo},
	}
	board, users, _, _ := newFixture(t, legacy...)
	reader := login(t, users, "reader", "pw")

	all, err := board.AllTasks(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, []string{"todo-1", "todo-2", "done-1", "done-2"}, titles(all))
}

func TestBoard_PermittedCanEveryTaskOperation(t *testing.T) {
	for _, op := range permission.Operations() {
		if op == permission.ManageUsers {
			continue
		}
		assert.True(t, permission.RoleAllows(models.Permitted, op), op.String())
	}
}

package service

import (
	"context"
	"slices"
	"strconv"
	"testing"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/password"
	"github.com/atinyakov/GophBoard/internal/session"
)

type mockUserRepo struct {
	users []models.User
	saves int

	SaveFunc func(ctx context.Context, users []models.User) error
}

func (m *mockUserRepo) Load(ctx context.Context) []models.User {
	return slices.Clone(m.users)
}

func (m *mockUserRepo) Save(ctx context.Context, users []models.User) error {
	m.saves++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, users)
	}
	m.users = slices.Clone(users)
	return nil
}

type mockTaskRepo struct {
	tasks []*models.Task
	saves int

	SaveFunc func(ctx context.Context, tasks []*models.Task) error
}

func (m *mockTaskRepo) Load(ctx context.Context) []*models.Task {
	out := make([]*models.Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (m *mockTaskRepo) Save(ctx context.Context, tasks []*models.Task) error {
	m.saves++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tasks)
	}
	m.tasks = make([]*models.Task, len(tasks))
	for i, t := range tasks {
		m.tasks[i] = t.Clone()
	}
	return nil
}

func mustHash(t *testing.T, plaintext string) string {
	t.Helper()
	h, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash(%q): %v", plaintext, err)
	}
	return h
}

func login(t *testing.T, users *UserService, username, plaintext string) *session.Session {
	t.Helper()
	sess := session.New()
	if err := sess.Login(context.Background(), users, username, plaintext); err != nil {
		t.Fatalf("Login(%q): %v", username, err)
	}
	return sess
}

// newFixture returns services over in-memory repositories holding the
// admin plus one user per role, each with password "pw".
func newFixture(t *testing.T, tasks ...*models.Task) (*BoardService, *UserService, *mockTaskRepo, *mockUserRepo) {
	t.Helper()
	userRepo := &mockUserRepo{users: []models.User{
		{Username: "reader", HashedPassword: mustHash(t, "pw"), Permission: models.ReadOnly},
		{Username: "writer", HashedPassword: mustHash(t, "pw"), Permission: models.Permitted},
		{Username: "boss", HashedPassword: mustHash(t, "pw"), Permission: models.Admin},
	}}
	users := NewUserService(userRepo, nil)
	taskRepo := &mockTaskRepo{tasks: tasks}
	board := NewBoardService(context.Background(), taskRepo, users, nil)

	n := 0
	board.newID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return board, users, taskRepo, userRepo
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/GophBoard/internal/models"
	"github.com/atinyakov/GophBoard/internal/password"
	"github.com/atinyakov/GophBoard/internal/session"
)

type staticLoader []models.User

func (l staticLoader) Load(ctx context.Context) ([]models.User, error) {
	return l, nil
}

func loggedIn(t *testing.T) *session.Session {
	t.Helper()
	h, err := password.Hash("pw")
	if err != nil {
		t.Fatal(err)
	}
	s := session.New()
	users := staticLoader{{Username: "alice", HashedPassword: h, Permission: models.Permitted}}
	if err := s.Login(context.Background(), users, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRequireSession(t *testing.T) {
	manager := session.NewManager()
	token := manager.Open(loggedIn(t))
	staleToken := manager.Open(session.New())

	var gotSession *session.Session
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFromContext(r.Context())
		gotToken = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireSession(manager)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer  ", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "logged-out session", header: "Bearer " + staleToken, wantStatus: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "scheme is case-insensitive", header: "bearer " + token, wantStatus: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSession, gotToken = nil, ""
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusNoContent {
				if gotSession != nil {
					t.Error("next handler must not run")
				}
				return
			}
			if gotSession == nil || gotSession.CurrentUser().Username != "alice" {
				t.Errorf("session not propagated: %v", gotSession)
			}
			if gotToken != token {
				t.Errorf("token = %q; want %q", gotToken, token)
			}
		})
	}
}

func TestSessionFromContext_Empty(t *testing.T) {
	if s := SessionFromContext(context.Background()); s != nil {
		t.Errorf("SessionFromContext = %v; want nil", s)
	}
	if tok := TokenFromContext(context.Background()); tok != "" {
		t.Errorf("TokenFromContext = %q; want empty", tok)
	}
}

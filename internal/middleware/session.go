package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/GophBoard/internal/session"
)

type ctxKey string

const (
	sessionKey ctxKey = "session"
	tokenKey   ctxKey = "token"
)

// SessionLookup resolves bearer tokens to sessions.
type SessionLookup interface {
	Lookup(token string) (*session.Session, bool)
}

// RequireSession rejects requests without a valid "Authorization: Bearer"
// token. On success the session and its token are stored in the request
// context.
func RequireSession(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			sess, ok := sessions.Lookup(token)
			if !ok || !sess.LoggedIn() {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SessionFromContext returns the session stored by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// TokenFromContext returns the bearer token stored by RequireSession, or "".
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

package http

import (
	"net/http"

	"github.com/atinyakov/GophBoard/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the board
// API, the Prometheus scrape endpoint and a health probe.
//
// Parameters:
//
//	authHandler    - handler for register, login, logout and me
//	taskHandler    - handler for task queries and mutations
//	userHandler    - handler for user administration
//	metrics        - request collectors; may be nil
//	metricsHandler - handler exposed at /metrics; may be nil
//	logger         - structured logger for request logging middleware
//
// Routes:
//
//	POST   /api/register                   → authHandler.Register
//	POST   /api/login                      → authHandler.Login
//	POST   /api/logout                     → authHandler.Logout        (session)
//	GET    /api/me                         → authHandler.Me            (session)
//	GET    /api/tasks                      → taskHandler.List          (session)
//	POST   /api/tasks                      → taskHandler.Create        (session)
//	GET    /api/tasks/{id}                 → taskHandler.Get           (session)
//	PATCH  /api/tasks/{id}                 → taskHandler.Update        (session)
//	DELETE /api/tasks/{id}                 → taskHandler.Delete        (session)
//	POST   /api/tasks/{id}/move            → taskHandler.Move          (session)
//	POST   /api/tasks/{id}/drop            → taskHandler.Drop          (session)
//	POST   /api/tasks/{id}/labels          → taskHandler.AddLabel      (session)
//	POST   /api/tasks/{id}/comments        → taskHandler.AddComment    (session)
//	PUT    /api/tasks/{id}/color           → taskHandler.SetColor      (session)
//	GET    /api/users                      → userHandler.List          (session)
//	GET    /api/users/{username}           → userHandler.Get           (session)
//	PUT    /api/users/{username}/permission → userHandler.SetPermission (session)
//	GET    /metrics, GET /healthz
//
// Middleware chain (applied in order):
//  1. WithRequestLogging(logger)         - logs incoming requests
//  2. metrics.Handler                    - counts requests per route
//  3. AllowContentType("application/json") - rejects non-JSON bodies under /api
//  4. RequireSession                     - resolves the bearer token on protected routes
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	userHandler *UserHandler,
	metrics *middleware.Metrics,
	metricsHandler http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	if metrics != nil {
		r.Use(metrics.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a bearer token from /api/login
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(authHandler.Sessions))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Patch("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
					r.Post("/move", taskHandler.Move)
					r.Post("/drop", taskHandler.Drop)
					r.Post("/labels", taskHandler.AddLabel)
					r.Post("/comments", taskHandler.AddComment)
					r.Put("/color", taskHandler.SetColor)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{username}", userHandler.Get)
				r.Put("/{username}/permission", userHandler.SetPermission)
			})
		})
	})

	return r
}

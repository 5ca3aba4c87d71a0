// Package main initializes and starts the GophBoard HTTP server, setting up
// configuration, logging, storage, repositories, services, handlers and the
// session sweeper.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/GophBoard/internal/config"
	"github.com/atinyakov/GophBoard/internal/db"
	"github.com/atinyakov/GophBoard/internal/logger"
	"github.com/atinyakov/GophBoard/internal/middleware"
	"github.com/atinyakov/GophBoard/internal/repository"
	"github.com/atinyakov/GophBoard/internal/server/handler/http"
	"github.com/atinyakov/GophBoard/internal/service"
	"github.com/atinyakov/GophBoard/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	if err := run(options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the document store selected by configuration.
	store, err := db.Open(options.Storage, options.DataDir, options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			zapLogger.Error("failed to close storage", zap.Error(err))
		}
	}()
	zapLogger.Info("storage ready", zap.String("kind", options.Storage), zap.String("dir", options.DataDir))

	// Initialize repositories and business-logic services.
	userRepo := repository.NewUserRepository(store, zapLogger)
	taskRepo := repository.NewTaskRepository(store, zapLogger)

	userService := service.NewUserService(userRepo, zapLogger)
	if _, err := userService.Load(ctx); err != nil {
		return fmt.Errorf("cannot load users: %w", err)
	}
	boardService := service.NewBoardService(ctx, taskRepo, userService, zapLogger)

	// Sessions and metrics.
	sessions := session.NewManager()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry, func() float64 { return float64(sessions.Len()) })

	// Create HTTP handlers and build the router.
	authHandler := &http.AuthHandler{AuthService: userService, Sessions: sessions}
	taskHandler := &http.TaskHandler{BoardService: boardService}
	userHandler := &http.UserHandler{UserService: userService}
	router := http.NewRouter(authHandler, taskHandler, userHandler, metrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Expire idle API sessions.
	session.StartSweeper(gCtx, sessions, sweepInterval, options.SessionTTL, zapLogger)

	g.Go(func() error {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		zapLogger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

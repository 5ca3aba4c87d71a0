// Package main runs the interactive GophBoard shell against the configured
// storage.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/atinyakov/GophBoard/internal/client"
	"github.com/atinyakov/GophBoard/internal/config"
	"github.com/atinyakov/GophBoard/internal/db"
	"github.com/atinyakov/GophBoard/internal/logger"
	"github.com/atinyakov/GophBoard/internal/repository"
	"github.com/atinyakov/GophBoard/internal/service"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// main parses configuration and runs the shell until exit.
func main() {
	if slices.Contains(os.Args[1:], "-version") {
		fmt.Printf("GophBoard Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}
	options := config.Parse()

	// The shell owns stdout, so logs go to stderr and only from Warn up.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	level := options.LogLevel
	if level == "Info" || level == "Debug" {
		level = "Warn"
	}
	if err := log.Init(level); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(options, log.Log); err != nil && !errors.Is(err, context.Canceled) {
		log.Log.Fatal("shell stopped", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := db.Open(options.Storage, options.DataDir, options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init storage: %w", err)
	}
	defer store.Close()

	users := service.NewUserService(repository.NewUserRepository(store, zapLogger), zapLogger)
	if _, err := users.Load(ctx); err != nil {
		return fmt.Errorf("cannot load users: %w", err)
	}
	board := service.NewBoardService(ctx, repository.NewTaskRepository(store, zapLogger), users, zapLogger)

	fmt.Println("GophBoard shell. Type 'help' for a list of commands.")
	return client.NewShell(os.Stdin, os.Stdout, users, board).Run(ctx)
}

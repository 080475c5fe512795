package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Rhyoz/Project-Manager/internal/cli"
	"github.com/Rhyoz/Project-Manager/internal/config"
	"github.com/Rhyoz/Project-Manager/internal/contractors"
	"github.com/Rhyoz/Project-Manager/internal/db"
	"github.com/Rhyoz/Project-Manager/internal/provision"
	"github.com/Rhyoz/Project-Manager/internal/reconcile"
	"github.com/Rhyoz/Project-Manager/internal/repository"
	"github.com/Rhyoz/Project-Manager/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	database, err := db.OpenDB(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and the transactional unit of work
	projectRepo := repository.NewSQLiteProjectRepo(database)
	unitRepo := repository.NewSQLiteUnitRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	logger := newLogger(cfg.Log.Level)

	// Filesystem collaborators take their paths explicitly; nothing reads
	// configuration from ambient state.
	prov := provision.New(cfg.Paths.TemplateDir, cfg.Paths.ProjectDir, cfg.Docs.Required, logger)
	rec := reconcile.New(cfg.Paths.ProjectDir, logger)

	observer := service.NewLogUseCaseObserver(os.Stderr)
	projects := service.NewProjectService(projectRepo, unitRepo, uow, prov, rec, observer)

	app := &cli.App{
		Projects:    projects,
		Contractors: contractors.NewStore(cfg.Paths.ProjectDir),
		Provisioner: prov,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/millennium/internal/cli"
	"github.com/alexanderramin/millennium/internal/cli/formatter"
	"github.com/alexanderramin/millennium/internal/config"
	"github.com/alexanderramin/millennium/internal/db"
	"github.com/alexanderramin/millennium/internal/editor"
	"github.com/alexanderramin/millennium/internal/exitcode"
	"github.com/alexanderramin/millennium/internal/remote"
	"github.com/alexanderramin/millennium/internal/repository"
	"github.com/alexanderramin/millennium/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.Error(err.Error()))
		os.Exit(exitcode.For(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return exitcode.Wrap(exitcode.AuthError, err)
	}
	if err := cfg.EnsureDir(); err != nil {
		return exitcode.Wrap(exitcode.BackendError, err)
	}

	// Logs go to a file only; the TUI owns the terminal.
	var logger *slog.Logger
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = service.NewLogger(f)
	}

	backend, closer, err := openBackend(cfg, logger)
	if err != nil {
		return exitcode.Wrap(exitcode.BackendError, err)
	}
	defer closer.Close()

	app := &cli.App{
		Services:    service.NewServices(backend, service.NewLogUseCaseObserver(logger)),
		NoticeDelay: cfg.NoticeDuration(),
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
	if cfg.KeepDraftOnFailedSave {
		app.Editor.FailedSave = editor.KeepEditing
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openBackend builds the configured store. The returned closer releases the
// local database.
func openBackend(cfg config.Config, logger *slog.Logger) (repository.Backend, io.Closer, error) {
	tokens := config.NewTokenStore(cfg)

	if cfg.Backend == config.BackendRemote {
		var observer remote.Observer = remote.NoopObserver{}
		if logger != nil {
			observer = remote.NewLogObserver(logger)
		}
		client := remote.NewClient(cfg, tokens, observer)
		return remote.NewBackend(client), nopCloser{}, nil
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return repository.NewSQLiteBackend(database, tokens), database, nil
}

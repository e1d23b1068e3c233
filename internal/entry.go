// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/moodmusic/internal/api"
	"github.com/starford/moodmusic/internal/history"
	"github.com/starford/moodmusic/internal/mcpserver"
	"github.com/starford/moodmusic/internal/music"
	"github.com/starford/moodmusic/internal/musicservice"
	"github.com/starford/moodmusic/internal/sse"
	"github.com/starford/moodmusic/internal/watcher"
)

// components holds the wired objects shared by every entry point.
type components struct {
	cfg    *Config
	logger *slog.Logger
	lib    *music.Library
	db     *history.DB
	svc    *musicservice.Service
}

func (r *components) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup initializes logging, the music library and the history store.
// events may be nil.
func (a *application) setup(events musicservice.Publisher) (*components, error) {
	cfg := a.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("base_url", cfg.App.HTTP.BaseURL()),
		slog.String("music_path", cfg.Music.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Music.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create music dir: %w", err)
	}

	lib := music.NewLibrary(cfg.Music.Path,
		music.WithBaseURL(cfg.App.HTTP.BaseURL()),
		music.WithBuffer(cfg.Music.DurationBuffer),
		music.WithLogger(logger),
	)
	if missing := lib.Current().VerifyAssetsPresent(); len(missing) > 0 {
		logger.Warn("built-in tracks missing from music dir", slog.Int("count", len(missing)))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := history.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}

	return &components{
		cfg:    cfg,
		logger: logger,
		lib:    lib,
		db:     db,
		svc:    musicservice.NewService(lib, db, events, logger),
	}, nil
}

// Query wires the service without any transport and passes it to fn.
// It backs the one-shot CLI commands.
func Query(ctx context.Context, fn func(context.Context, *musicservice.Service) error, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := app.setup(nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt.svc)
}

// RunMCP serves the music tools over stdio until the client disconnects.
// Logs go to stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	rt, err := app.setup(nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	return mcpserver.New(rt.svc, app.version).ServeStdio()
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt, err := app.setup(broker)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, logger := rt.cfg, rt.logger

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", readyHandler(rt.db, broker.ClientCount))

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the library when the expanded tree changes.
	if cfg.Music.Watch {
		g.Go(func() error {
			err := watcher.Watch(gCtx, rt.svc, rt.lib.Current().ExpandedRoot(), watcher.DefaultDebounce, logger,
				func(kind, path string) {
					broker.PublishTrackEvent(kind, path)
				})
			if err != nil {
				logger.Warn("library watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"RatingActionTracker/internal/api"
	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/config"
	"RatingActionTracker/internal/infrastructure/fetch"
	"RatingActionTracker/internal/infrastructure/parser"
	"RatingActionTracker/internal/infrastructure/scheduler"
	"RatingActionTracker/internal/infrastructure/storage"
	"RatingActionTracker/internal/infrastructure/telegram"
	"RatingActionTracker/internal/logging"
	"RatingActionTracker/internal/ports"
	"RatingActionTracker/internal/scanner"
	"RatingActionTracker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sql.DB
	classifier *classifier.Classifier
	tracker    *usecase.Tracker
	scheduler  *usecase.Scheduler
}

// New builds a runnable application instance from validated config.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := fetch.New(fetch.Options{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
		Retries:   cfg.HTTP.Retries,
	})

	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(client, baseLogger.With("component", "scanner.rss")))
	registry.Register(parser.NewHTMLScanner(client, baseLogger.With("component", "scanner.html")))

	for _, agency := range cfg.Agencies {
		if _, err := registry.Resolve(agency.Scanner); err != nil {
			return nil, fmt.Errorf("agency %s: %w", agency.Name, err)
		}
	}

	source := parser.NewStrategySource(registry, cfg.Agencies, baseLogger.With("component", "source"))
	cls := classifier.New(baseLogger.With("component", "classifier"))

	application := &Application{cfg: cfg, logger: baseLogger, classifier: cls}

	var repository ports.ActionRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		application.db = db
		repository = storage.NewSQLiteRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	application.tracker = usecase.NewTracker(usecase.TrackerDeps{
		Source:       source,
		Repository:   repository,
		Notifier:     notifier,
		Classifier:   cls,
		DigestMarker: telegram.Marker{},
		Logger:       baseLogger.With("component", "tracker"),
		Location:     cfg.Scheduler.Location(),
	})
	application.scheduler = usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Scheduler.Interval),
		application.tracker,
		baseLogger.With("component", "scheduler"),
	)

	return application, nil
}

// Tracker exposes the refresh use case to the CLI.
func (a *Application) Tracker() *usecase.Tracker {
	return a.tracker
}

// Classifier exposes the configured classifier to the CLI.
func (a *Application) Classifier() *classifier.Classifier {
	return a.classifier
}

// RunOnce performs a single refresh.
func (a *Application) RunOnce(ctx context.Context) (usecase.Snapshot, error) {
	return a.tracker.Refresh(ctx)
}

// Serve runs the dashboard and the periodic refresh until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           api.NewRouter(a.tracker, a.classifier, a.cfg.Scheduler.CacheTTL),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("dashboard listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if serveErr != nil {
		return fmt.Errorf("serve http: %w", serveErr)
	}
	return nil
}

// Close releases the storage handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/budgetbot/budgetbot/internal/config"
	"github.com/budgetbot/budgetbot/internal/database"
	"github.com/budgetbot/budgetbot/internal/scheduler"
	"github.com/budgetbot/budgetbot/pkg/notification"
	"github.com/budgetbot/budgetbot/pkg/telegram"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, the Telegram bot, the daily
// notification sweep, and the HTTP server lifecycle.
type Application struct {
	cfg       config.Application
	router    *mux.Router
	srv       *http.Server
	bot       *telegram.Bot
	scheduler *scheduler.Daily
	notifier  notification.Notifier
}

// NewApplication constructs the full application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// The database is only needed for the postgres storage driver; the file
	// driver keeps everything in a single JSON file.
	var db *sql.DB
	if cfg.Storage.Driver == "postgres" {
		db, err = database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
	}

	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Host,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{
		cfg:       cfg,
		router:    r,
		srv:       srv,
		bot:       deps.Bot,
		scheduler: deps.Scheduler,
		notifier:  deps.Notifier,
	}, nil
}

// Run starts the daily sweep, the Telegram update loop and the HTTP server,
// and blocks until the context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	go a.scheduler.Run(ctx, func(ctx context.Context) {
		if err := a.notifier.SweepAllUsers(ctx); err != nil {
			log.Errorf("daily sweep: %v", err)
		}
	})

	go func() {
		if err := a.bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("telegram bot stopped: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}

package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/budgetbot/budgetbot/internal/config"
	"github.com/budgetbot/budgetbot/internal/scheduler"
	"github.com/budgetbot/budgetbot/internal/utils"
	"github.com/budgetbot/budgetbot/pkg/entry"
	"github.com/budgetbot/budgetbot/pkg/notification"
	"github.com/budgetbot/budgetbot/pkg/telegram"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EntryRepo    entry.EntryRepo
	EntryService entry.EntryService
	EntryHandler *entry.EntryHandler

	TelegramClient telegram.Client
	Bot            *telegram.Bot

	Renderer            *notification.Renderer
	Notifier            notification.Notifier
	NotificationHandler *notification.NotificationHandler

	Scheduler *scheduler.Daily
	Clock     utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram bot token must not be empty")
	}

	location, err := time.LoadLocation(cfg.Notifications.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown notifications timezone %q: %w", cfg.Notifications.Timezone, err)
	}

	switch cfg.Storage.Driver {
	case "postgres":
		deps.EntryRepo = entry.NewSQLEntryRepo(db)
	case "file":
		deps.EntryRepo = entry.NewFileEntryRepo(cfg.Storage.File)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	deps.EntryService = entry.NewEntryService(deps.EntryRepo)
	deps.EntryHandler = entry.NewEntryHandler(deps.EntryService)

	deps.TelegramClient = telegram.NewClient(cfg.Telegram.Token, time.Duration(cfg.Telegram.PollTimeoutSecs)*time.Second)
	deps.Bot = telegram.NewBot(deps.TelegramClient, deps.EntryService, cfg.Currency)

	deps.Clock = &utils.SystemClock{}
	deps.Renderer = notification.NewRenderer(cfg.Currency)
	deps.Notifier = notification.NewNotifier(deps.EntryRepo, deps.TelegramClient, deps.Renderer, deps.Clock, location, cfg.Notifications.WindowDays)
	deps.NotificationHandler = notification.NewNotificationHandler(deps.Notifier)

	deps.Scheduler = scheduler.NewDaily(deps.Clock, cfg.Notifications.Hour, cfg.Notifications.Minute, location)

	return deps, nil
}

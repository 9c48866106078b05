package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetbot/budgetbot/internal/utils"
	"github.com/budgetbot/budgetbot/pkg/entry"
	log "github.com/sirupsen/logrus"
)

// Sender delivers a rendered reminder to a recipient. Satisfied by the
// Telegram client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Notifier interface {
	// NotifyUser evaluates one user's ledger and delivers a reminder when
	// anything is due within the window. Nothing is sent for an empty result.
	NotifyUser(ctx context.Context, userID int64) error
	// SweepAllUsers runs NotifyUser for every known user. A failure for one
	// user is logged and does not stop the sweep for the others.
	SweepAllUsers(ctx context.Context) error
}

type NotifierImpl struct {
	repo       entry.EntryRepo
	sender     Sender
	renderer   *Renderer
	clock      utils.Clock
	location   *time.Location
	windowDays int
}

func NewNotifier(repo entry.EntryRepo, sender Sender, renderer *Renderer, clock utils.Clock, location *time.Location, windowDays int) *NotifierImpl {
	return &NotifierImpl{
		repo:       repo,
		sender:     sender,
		renderer:   renderer,
		clock:      clock,
		location:   location,
		windowDays: windowDays,
	}
}

func (n *NotifierImpl) NotifyUser(ctx context.Context, userID int64) error {
	entries, err := n.repo.ListEntries(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load ledger of user %d: %w", userID, err)
	}

	due := DueSoon(entries, n.today(), n.windowDays)
	if len(due) == 0 {
		log.Debugf("nothing due for user %d, no reminder sent", userID)
		return nil
	}

	if err := n.sender.SendMessage(ctx, userID, n.renderer.Render(due)); err != nil {
		return fmt.Errorf("failed to deliver reminder to user %d: %w", userID, err)
	}
	log.Infof("delivered reminder with %d due entries to user %d", len(due), userID)
	return nil
}

func (n *NotifierImpl) SweepAllUsers(ctx context.Context) error {
	userIDs, err := n.repo.AllUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for sweep: %w", err)
	}

	log.Infof("starting due-window sweep over %d users", len(userIDs))
	failures := 0
	for _, userID := range userIDs {
		if err := n.NotifyUser(ctx, userID); err != nil {
			log.Errorf("sweep: %v", err)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("sweep finished with %d failed users out of %d", failures, len(userIDs))
	}
	return nil
}

// today is the current calendar date in the notifier's timezone; all
// due-window comparisons run against it.
func (n *NotifierImpl) today() time.Time {
	return entry.Canonicalize(n.clock.Now().In(n.location))
}

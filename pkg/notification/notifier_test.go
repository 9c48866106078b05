package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/budgetbot/budgetbot/internal/utils"
	"github.com/budgetbot/budgetbot/pkg/entry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubSender struct {
	sent    map[int64][]string
	failFor map[int64]error
}

func newStubSender() *stubSender {
	return &stubSender{sent: map[int64][]string{}, failFor: map[int64]error{}}
}

func (s *stubSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := s.failFor[chatID]; err != nil {
		return err
	}
	s.sent[chatID] = append(s.sent[chatID], text)
	return nil
}

// brokenLedgerRepo fails loading for one user, everything else passes through.
type brokenLedgerRepo struct {
	*entry.StubEntryRepo
	brokenUser int64
}

func (r *brokenLedgerRepo) ListEntries(ctx context.Context, userID int64) ([]entry.Entry, error) {
	if userID == r.brokenUser {
		return nil, entry.ErrStorageUnavailable
	}
	return r.StubEntryRepo.ListEntries(ctx, userID)
}

func newTestNotifier(repo entry.EntryRepo, sender Sender, now time.Time) *NotifierImpl {
	clock := &utils.MockClock{FixedNow: now}
	return NewNotifier(repo, sender, NewRenderer("₽"), clock, time.UTC, 7)
}

func dueEntry(day int, description string) entry.Entry {
	return entry.Entry{
		Kind:        entry.KindDebt,
		Amount:      decimal.NewFromInt(100),
		Date:        date(2024, time.June, day),
		Description: description,
	}
}

func TestNotifyUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

	t.Run("Sends one message listing all due entries", func(t *testing.T) {
		repo := entry.NewStubEntryRepo()
		_ = repo.Store(ctx, 42, dueEntry(12, "rent"))
		_ = repo.Store(ctx, 42, dueEntry(11, "loan"))
		_ = repo.Store(ctx, 42, dueEntry(25, "far away"))
		sender := newStubSender()
		notifier := newTestNotifier(repo, sender, now)

		assert.NoError(t, notifier.NotifyUser(ctx, 42))

		assert.Len(t, sender.sent[42], 1)
		message := sender.sent[42][0]
		assert.Contains(t, message, "1. 💸 Debt")
		assert.Contains(t, message, "loan")
		assert.Contains(t, message, "rent")
		assert.NotContains(t, message, "far away")
	})

	t.Run("Sends nothing when no entry is due", func(t *testing.T) {
		repo := entry.NewStubEntryRepo()
		_ = repo.Store(ctx, 42, dueEntry(25, "far away"))
		sender := newStubSender()
		notifier := newTestNotifier(repo, sender, now)

		assert.NoError(t, notifier.NotifyUser(ctx, 42))
		assert.Empty(t, sender.sent)
	})

	t.Run("Notification does not change the stored ledger", func(t *testing.T) {
		repo := entry.NewStubEntryRepo()
		recurring := dueEntry(11, "subscription")
		recurring.Date = date(2023, time.February, 11)
		recurring.Recurring = true
		_ = repo.Store(ctx, 42, recurring)
		_ = repo.Store(ctx, 42, dueEntry(12, "one-off"))
		sender := newStubSender()
		notifier := newTestNotifier(repo, sender, now)

		assert.NoError(t, notifier.NotifyUser(ctx, 42))

		stored, _ := repo.ListEntries(ctx, 42)
		assert.Equal(t, date(2023, time.February, 11), stored[0].Date)
		assert.Equal(t, "subscription", stored[0].Description)
		assert.Equal(t, "one-off", stored[1].Description)
	})

	t.Run("Delivery failure is reported", func(t *testing.T) {
		repo := entry.NewStubEntryRepo()
		_ = repo.Store(ctx, 42, dueEntry(12, "rent"))
		sender := newStubSender()
		sender.failFor[42] = errors.New("chat blocked")
		notifier := newTestNotifier(repo, sender, now)

		assert.Error(t, notifier.NotifyUser(ctx, 42))
	})
}

func TestSweepAllUsers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)

	t.Run("One user's storage failure does not abort the sweep", func(t *testing.T) {
		stub := entry.NewStubEntryRepo()
		_ = stub.Store(ctx, 1, dueEntry(12, "ignored, load fails"))
		_ = stub.Store(ctx, 2, dueEntry(12, "rent"))
		repo := &brokenLedgerRepo{StubEntryRepo: stub, brokenUser: 1}
		sender := newStubSender()
		notifier := newTestNotifier(repo, sender, now)

		err := notifier.SweepAllUsers(ctx)

		assert.Error(t, err)
		assert.Len(t, sender.sent[2], 1)
		assert.Empty(t, sender.sent[1])
	})

	t.Run("Only users with due entries receive a message", func(t *testing.T) {
		repo := entry.NewStubEntryRepo()
		_ = repo.Store(ctx, 1, dueEntry(12, "due"))
		_ = repo.Store(ctx, 2, dueEntry(28, "not due"))
		sender := newStubSender()
		notifier := newTestNotifier(repo, sender, now)

		assert.NoError(t, notifier.SweepAllUsers(ctx))
		assert.Len(t, sender.sent[1], 1)
		assert.NotContains(t, sender.sent, int64(2))
	})

	t.Run("Delivery failure for one user does not block the others", func(t *testing.T) {
		repo := entry.NewStubEntryRepo()
		_ = repo.Store(ctx, 1, dueEntry(12, "due"))
		_ = repo.Store(ctx, 2, dueEntry(12, "due as well"))
		sender := newStubSender()
		sender.failFor[1] = errors.New("chat blocked")
		notifier := newTestNotifier(repo, sender, now)

		err := notifier.SweepAllUsers(ctx)

		assert.Error(t, err)
		assert.Len(t, sender.sent[2], 1)
	})
}

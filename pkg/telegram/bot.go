package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/budgetbot/budgetbot/pkg/entry"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	inputDateFormat = "02-01-2006"
	listDateFormat  = "Mon, 02-Jan-2006"
	pollRetryDelay  = 3 * time.Second
)

const helpText = `Hi! I am a budget bot. Commands:
/list - show all debts and incomes
/add <debt|income> <amount> <date DD-MM-YYYY> <monthly|once> <description> - add an entry
/delete - delete an entry`

const addUsageText = `Send the entry as: /add <debt|income> <amount> <date DD-MM-YYYY> <monthly|once> <description>`

// Bot runs the conversational command surface: it long-polls for updates and
// dispatches /start, /list, /add and /delete. Deleting is a two-step exchange;
// the chat that asked is marked pending and its next plain message is read as
// the entry number.
type Bot struct {
	client   Client
	entries  entry.EntryService
	currency string

	mu            sync.Mutex
	pendingDelete map[int64]bool
}

func NewBot(client Client, entries entry.EntryService, currency string) *Bot {
	return &Bot{
		client:        client,
		entries:       entries,
		currency:      currency,
		pendingDelete: map[int64]bool{},
	}
}

// Run polls for updates until the context is cancelled. Polling errors are
// logged and retried, they never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	log.Info("starting telegram update loop")
	var offset int64
	for {
		updates, err := b.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Errorf("failed to poll updates: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}
		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, *update.Message)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	log.Debugf("handling message from chat %d", chatID)

	switch {
	case text == "/start":
		b.reply(ctx, chatID, helpText)
	case text == "/list":
		b.handleList(ctx, chatID)
	case strings.HasPrefix(text, "/add"):
		b.handleAdd(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/add")))
	case text == "/delete":
		b.handleDeletePrompt(ctx, chatID)
	case b.isPendingDelete(chatID):
		b.handleDeleteChoice(ctx, chatID, text)
	}
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	entries, err := b.entries.List(ctx, chatID)
	if err != nil {
		log.Errorf("failed to list entries for chat %d: %v", chatID, err)
		b.reply(ctx, chatID, "Could not read your entries, please try again later.")
		return
	}
	if len(entries) == 0 {
		b.reply(ctx, chatID, "No entries yet.")
		return
	}

	blocks := make([]string, 0, len(entries))
	for i, e := range entries {
		recurring := "no"
		if e.Recurring {
			recurring = "yes"
		}
		blocks = append(blocks, fmt.Sprintf("%d. %s %s - %s %s\nDate: %s\nMonthly: %s\nDescription: %s",
			i+1, e.Kind.Glyph(), e.Kind.Label(), e.Amount.String(), b.currency,
			e.Date.Format(listDateFormat), recurring, e.Description))
	}
	b.reply(ctx, chatID, strings.Join(blocks, "\n\n"))
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(ctx, chatID, addUsageText)
		return
	}
	e, err := parseAddCommand(args)
	if err != nil {
		if errors.Is(err, entry.ErrInvalidDate) {
			b.reply(ctx, chatID, "Invalid date! Send the date as DD-MM-YYYY.")
		} else {
			b.reply(ctx, chatID, addUsageText)
		}
		return
	}

	if _, err := b.entries.Add(ctx, chatID, e); err != nil {
		log.Errorf("failed to add entry for chat %d: %v", chatID, err)
		b.reply(ctx, chatID, "Entry not added, please try again later.")
		return
	}
	b.reply(ctx, chatID, "Entry added!")
}

func (b *Bot) handleDeletePrompt(ctx context.Context, chatID int64) {
	entries, err := b.entries.List(ctx, chatID)
	if err != nil {
		log.Errorf("failed to list entries for chat %d: %v", chatID, err)
		b.reply(ctx, chatID, "Could not read your entries, please try again later.")
		return
	}
	if len(entries) == 0 {
		b.reply(ctx, chatID, "No entries to delete.")
		return
	}

	blocks := make([]string, 0, len(entries))
	for i, e := range entries {
		blocks = append(blocks, fmt.Sprintf("%d. %s %s - %s %s\nDescription: %s",
			i+1, e.Kind.Glyph(), e.Kind.Label(), e.Amount.String(), b.currency, e.Description))
	}
	b.setPendingDelete(chatID, true)
	b.reply(ctx, chatID, "Send the number of the entry to delete:\n"+strings.Join(blocks, "\n\n"))
}

func (b *Bot) handleDeleteChoice(ctx context.Context, chatID int64, text string) {
	b.setPendingDelete(chatID, false)

	number, err := strconv.Atoi(text)
	if err != nil {
		b.reply(ctx, chatID, "Invalid entry number.")
		return
	}
	deleted, err := b.entries.Delete(ctx, chatID, number)
	if err != nil {
		log.Errorf("failed to delete entry %d for chat %d: %v", number, chatID, err)
		b.reply(ctx, chatID, "Entry not deleted, please try again later.")
		return
	}
	if !deleted {
		b.reply(ctx, chatID, "Invalid entry number.")
		return
	}
	b.reply(ctx, chatID, "Entry deleted!")
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		log.Errorf("failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) isPendingDelete(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingDelete[chatID]
}

func (b *Bot) setPendingDelete(chatID int64, pending bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pending {
		b.pendingDelete[chatID] = true
	} else {
		delete(b.pendingDelete, chatID)
	}
}

// parseAddCommand reads "<debt|income> <amount> <DD-MM-YYYY> <monthly|once>
// <description...>". A date that does not parse is rejected here so an entry
// with a broken date is never stored.
func parseAddCommand(args string) (entry.Entry, error) {
	fields := strings.Fields(args)
	if len(fields) < 5 {
		return entry.Entry{}, fmt.Errorf("%w: expected kind, amount, date, recurrence and description", entry.ErrInvalidEntry)
	}

	var kind entry.Kind
	switch strings.ToLower(fields[0]) {
	case "debt":
		kind = entry.KindDebt
	case "income":
		kind = entry.KindIncome
	default:
		return entry.Entry{}, fmt.Errorf("%w: unknown kind %q", entry.ErrInvalidEntry, fields[0])
	}

	amount, err := decimal.NewFromString(fields[1])
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: amount %q", entry.ErrInvalidEntry, fields[1])
	}

	date, err := time.ParseInLocation(inputDateFormat, fields[2], time.UTC)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %q", entry.ErrInvalidDate, fields[2])
	}

	var recurring bool
	switch strings.ToLower(fields[3]) {
	case "monthly", "yes":
		recurring = true
	case "once", "no":
		recurring = false
	default:
		return entry.Entry{}, fmt.Errorf("%w: recurrence %q", entry.ErrInvalidEntry, fields[3])
	}

	return entry.Entry{
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Recurring:   recurring,
		Description: strings.Join(fields[4:], " "),
	}, nil
}

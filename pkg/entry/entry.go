package entry

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDebt   Kind = "debt"
	KindIncome Kind = "income"
)

// Glyph returns the symbol used when an entry is rendered for the user.
func (k Kind) Glyph() string {
	if k == KindIncome {
		return "💰"
	}
	return "💸"
}

func (k Kind) Label() string {
	if k == KindIncome {
		return "Income"
	}
	return "Debt"
}

var (
	ErrInvalidEntry = errors.New("invalid entry")
	ErrInvalidDate  = errors.New("invalid entry date")
)

// Entry is a single ledger line of a user: a one-off or monthly-recurring
// debt or income. For a recurring entry Date is the anchor: its day-of-month
// fixes the day the obligation recurs on. The anchor is never advanced in
// storage; the occurrence used for due-window checks is derived with
// NextOccurrence every time.
type Entry struct {
	UID         string
	Kind        Kind
	Amount      decimal.Decimal
	Date        time.Time
	Recurring   bool
	Description string
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Kind != KindDebt && e.Kind != KindIncome {
		return ErrInvalidEntry
	}
	if e.Amount.IsNegative() {
		return ErrInvalidEntry
	}
	return nil
}

package entry

import (
	"context"
	"errors"
)

// ErrStorageUnavailable is returned when the backing store cannot be read or
// written at all, as opposed to a normal empty result.
var ErrStorageUnavailable = errors.New("entry storage unavailable")

// EntryRepo is the storage contract for user ledgers. Entries of a user form
// a sequence in insertion order; implementations must preserve that order and
// must never reorder it as a side effect of reads. Every call works on the
// full ledger of one user (no partial updates).
type EntryRepo interface {
	// ListEntries returns all entries of a user in insertion order.
	// An unknown user yields an empty slice, not an error.
	ListEntries(ctx context.Context, userID int64) ([]Entry, error)
	// Store appends a new entry to the user's ledger.
	Store(ctx context.Context, userID int64, entry Entry) error
	// Delete removes the entry at the given zero-based position in insertion
	// order. Returns false when the position does not exist.
	Delete(ctx context.Context, userID int64, index int) (bool, error)
	// AllUserIDs returns the identifiers of every user with a ledger.
	AllUserIDs(ctx context.Context) ([]int64, error)
}

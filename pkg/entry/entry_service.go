package entry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type EntryService interface {
	// Add validates and stores a new entry, returning it with its assigned UID.
	Add(ctx context.Context, userID int64, entry Entry) (Entry, error)
	List(ctx context.Context, userID int64) ([]Entry, error)
	// Delete removes the entry with the given 1-based number as shown to the
	// user by List. Returns false for a number out of range.
	Delete(ctx context.Context, userID int64, number int) (bool, error)
}

type EntryServiceImpl struct {
	repo EntryRepo
}

func NewEntryService(repo EntryRepo) *EntryServiceImpl {
	return &EntryServiceImpl{repo: repo}
}

func (s *EntryServiceImpl) Add(ctx context.Context, userID int64, entry Entry) (Entry, error) {
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	entry.UID = uuid.NewString()
	entry.Date = Canonicalize(entry.Date)

	if err := s.repo.Store(ctx, userID, entry); err != nil {
		return Entry{}, fmt.Errorf("failed to store entry for user %d: %w", userID, err)
	}
	return entry, nil
}

func (s *EntryServiceImpl) List(ctx context.Context, userID int64) ([]Entry, error) {
	return s.repo.ListEntries(ctx, userID)
}

func (s *EntryServiceImpl) Delete(ctx context.Context, userID int64, number int) (bool, error) {
	if number < 1 {
		return false, nil
	}
	deleted, err := s.repo.Delete(ctx, userID, number-1)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry %d of user %d: %w", number, userID, err)
	}
	if !deleted {
		log.Warnf("entry %d of user %d not deleted, no such position", number, userID)
	}
	return deleted, nil
}

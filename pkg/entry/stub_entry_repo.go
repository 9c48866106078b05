package entry

import (
	"context"
	"sort"
)

type StubEntryRepo struct {
	data    map[int64][]Entry
	failure error
}

func NewStubEntryRepo() *StubEntryRepo {
	return &StubEntryRepo{data: map[int64][]Entry{}}
}

// FailWith makes every subsequent call return the given error.
func (s *StubEntryRepo) FailWith(err error) {
	s.failure = err
}

func (s *StubEntryRepo) ListEntries(ctx context.Context, userID int64) ([]Entry, error) {
	if s.failure != nil {
		return nil, s.failure
	}
	entries := make([]Entry, len(s.data[userID]))
	copy(entries, s.data[userID])
	return entries, nil
}

func (s *StubEntryRepo) Store(ctx context.Context, userID int64, entry Entry) error {
	if s.failure != nil {
		return s.failure
	}
	s.data[userID] = append(s.data[userID], entry)
	return nil
}

func (s *StubEntryRepo) Delete(ctx context.Context, userID int64, index int) (bool, error) {
	if s.failure != nil {
		return false, s.failure
	}
	entries := s.data[userID]
	if index < 0 || index >= len(entries) {
		return false, nil
	}
	s.data[userID] = append(entries[:index], entries[index+1:]...)
	return true, nil
}

func (s *StubEntryRepo) AllUserIDs(ctx context.Context) ([]int64, error) {
	if s.failure != nil {
		return nil, s.failure
	}
	ids := make([]int64, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *StubEntryRepo) Cleanup() {
	s.data = map[int64][]Entry{}
	s.failure = nil
}

package entry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// legacyStorageOffset is the fixed shift applied symmetrically around the JSON
// file: dates are written shifted forward by 26h59m and shifted back on read.
// Data files written by the previous version of the bot already contain
// timestamps with this shift baked in, so it is kept for compatibility with
// existing files. The shift exists only at this boundary; dates everywhere
// else in the application are canonical calendar dates.
const legacyStorageOffset = 26*time.Hour + 59*time.Minute

func encodeStoredDate(d time.Time) string {
	return d.Add(legacyStorageOffset).Format(time.RFC3339)
}

func decodeStoredDate(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return Canonicalize(ts.Add(-legacyStorageOffset)), nil
}

// storedEntry is the on-disk shape of an entry. Field names match the files
// written by the previous version of the bot ("type", "repeat").
type storedEntry struct {
	UID         string          `json:"uid,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Repeat      bool            `json:"repeat"`
	Description string          `json:"description"`
}

type ledgerFile struct {
	Users map[string][]storedEntry `json:"users"`
}

// FileEntryRepo keeps all ledgers in a single JSON file. Every operation is a
// whole-file read-modify-write guarded by a mutex, so concurrent adds,
// deletes and sweep reads cannot interleave and lose updates.
type FileEntryRepo struct {
	path string
	mu   sync.Mutex
}

func NewFileEntryRepo(path string) *FileEntryRepo {
	return &FileEntryRepo{path: path}
}

func (r *FileEntryRepo) ListEntries(ctx context.Context, userID int64) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return nil, err
	}
	stored := data.Users[strconv.FormatInt(userID, 10)]
	entries := make([]Entry, 0, len(stored))
	for _, s := range stored {
		e, err := fromStored(s)
		if err != nil {
			log.Warnf("skipping unreadable entry of user %d: %v", userID, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *FileEntryRepo) Store(ctx context.Context, userID int64, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return err
	}
	key := strconv.FormatInt(userID, 10)
	data.Users[key] = append(data.Users[key], toStored(entry))
	return r.save(data)
}

func (r *FileEntryRepo) Delete(ctx context.Context, userID int64, index int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return false, err
	}
	key := strconv.FormatInt(userID, 10)
	stored := data.Users[key]
	if index < 0 || index >= len(stored) {
		return false, nil
	}
	data.Users[key] = append(stored[:index], stored[index+1:]...)
	if err := r.save(data); err != nil {
		return false, err
	}
	return true, nil
}

func (r *FileEntryRepo) AllUserIDs(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(data.Users))
	for key := range data.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Warnf("skipping ledger with non-numeric user id %q", key)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// load reads the whole file. A missing file is an empty ledger, not an error.
// Entries are returned exactly as stored: recurring anchors are never rolled
// forward here and the stored order is never changed.
func (r *FileEntryRepo) load() (*ledgerFile, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ledgerFile{Users: map[string][]storedEntry{}}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	var data ledgerFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if data.Users == nil {
		data.Users = map[string][]storedEntry{}
	}
	return &data, nil
}

func (r *FileEntryRepo) save(data *ledgerFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := os.WriteFile(r.path, raw, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func toStored(e Entry) storedEntry {
	return storedEntry{
		UID:         e.UID,
		Type:        string(e.Kind),
		Amount:      e.Amount,
		Date:        encodeStoredDate(e.Date),
		Repeat:      e.Recurring,
		Description: e.Description,
	}
}

func fromStored(s storedEntry) (Entry, error) {
	date, err := decodeStoredDate(s.Date)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		UID:         s.UID,
		Kind:        Kind(s.Type),
		Amount:      s.Amount,
		Date:        date,
		Recurring:   s.Repeat,
		Description: s.Description,
	}, nil
}

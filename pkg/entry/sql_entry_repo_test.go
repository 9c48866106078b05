package entry

import (
	"context"
	"testing"
	"time"

	"github.com/budgetbot/budgetbot/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSQLEntryRepo_StoreAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLEntryRepo(test_utils.SetupTestDB(t))

	first := Entry{
		UID:         "a",
		Kind:        KindDebt,
		Amount:      decimal.RequireFromString("1500.5"),
		Date:        date(2024, time.June, 20),
		Recurring:   true,
		Description: "rent",
	}
	second := Entry{
		UID:         "b",
		Kind:        KindIncome,
		Amount:      decimal.NewFromInt(300),
		Date:        date(2024, time.June, 12),
		Description: "salary",
	}
	assert.NoError(t, repo.Store(ctx, 42, first))
	assert.NoError(t, repo.Store(ctx, 42, second))

	entries, err := repo.ListEntries(ctx, 42)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	// Insertion order, not date order.
	assert.Equal(t, "a", entries[0].UID)
	assert.Equal(t, "b", entries[1].UID)
	assert.True(t, entries[0].Amount.Equal(first.Amount))
	assert.Equal(t, first.Date, entries[0].Date)
	assert.True(t, entries[0].Recurring)
	assert.False(t, entries[1].Recurring)
}

func TestSQLEntryRepo_UnknownUserIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLEntryRepo(test_utils.SetupTestDB(t))

	entries, err := repo.ListEntries(ctx, 99)
	assert.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSQLEntryRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLEntryRepo(test_utils.SetupTestDB(t))
	for i, uid := range []string{"a", "b", "c"} {
		e := validEntry(uid)
		e.UID = uid
		e.Date = date(2024, time.June, 10+i)
		assert.NoError(t, repo.Store(ctx, 42, e))
	}

	deleted, err := repo.Delete(ctx, 42, 1)
	assert.NoError(t, err)
	assert.True(t, deleted)

	entries, _ := repo.ListEntries(ctx, 42)
	assert.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].UID)
	assert.Equal(t, "c", entries[1].UID)

	deleted, err = repo.Delete(ctx, 42, 7)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestSQLEntryRepo_AllUserIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLEntryRepo(test_utils.SetupTestDB(t))

	a := validEntry("a")
	a.UID = "a"
	b := validEntry("b")
	b.UID = "b"
	assert.NoError(t, repo.Store(ctx, 42, a))
	assert.NoError(t, repo.Store(ctx, 7, b))

	ids, err := repo.AllUserIDs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []int64{7, 42}, ids)
}

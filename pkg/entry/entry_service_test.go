package entry

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEntryService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid entry is stored with a UID and a canonical date", func(t *testing.T) {
		repo := NewStubEntryRepo()
		service := NewEntryService(repo)
		loc, _ := time.LoadLocation("Europe/Moscow")

		created, err := service.Add(ctx, 42, Entry{
			Kind:        KindDebt,
			Amount:      decimal.NewFromInt(1500),
			Date:        time.Date(2024, time.June, 10, 22, 30, 0, 0, loc),
			Recurring:   true,
			Description: "rent",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.UID)
		assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), created.Date)

		stored, err := repo.ListEntries(ctx, 42)
		assert.NoError(t, err)
		assert.Len(t, stored, 1)
		assert.Equal(t, created, stored[0])
	})

	t.Run("Entry without a date is rejected and never stored", func(t *testing.T) {
		repo := NewStubEntryRepo()
		service := NewEntryService(repo)

		_, err := service.Add(ctx, 42, Entry{Kind: KindDebt, Amount: decimal.NewFromInt(100)})
		assert.ErrorIs(t, err, ErrInvalidDate)

		stored, err := repo.ListEntries(ctx, 42)
		assert.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("Entry with an unknown kind is rejected", func(t *testing.T) {
		repo := NewStubEntryRepo()
		service := NewEntryService(repo)

		_, err := service.Add(ctx, 42, Entry{
			Kind:   Kind("loan"),
			Amount: decimal.NewFromInt(100),
			Date:   time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("Entry with a negative amount is rejected", func(t *testing.T) {
		repo := NewStubEntryRepo()
		service := NewEntryService(repo)

		_, err := service.Add(ctx, 42, Entry{
			Kind:   KindIncome,
			Amount: decimal.NewFromInt(-5),
			Date:   time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})
}

func TestEntryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes by the 1-based number shown to the user", func(t *testing.T) {
		repo := NewStubEntryRepo()
		service := NewEntryService(repo)
		first, _ := service.Add(ctx, 42, validEntry("first"))
		_, _ = service.Add(ctx, 42, validEntry("second"))

		deleted, err := service.Delete(ctx, 42, 2)
		assert.NoError(t, err)
		assert.True(t, deleted)

		remaining, err := service.List(ctx, 42)
		assert.NoError(t, err)
		assert.Len(t, remaining, 1)
		assert.Equal(t, first.UID, remaining[0].UID)
	})

	t.Run("Number out of range deletes nothing", func(t *testing.T) {
		repo := NewStubEntryRepo()
		service := NewEntryService(repo)
		_, _ = service.Add(ctx, 42, validEntry("only"))

		for _, number := range []int{0, -1, 2} {
			deleted, err := service.Delete(ctx, 42, number)
			assert.NoError(t, err)
			assert.False(t, deleted)
		}
		remaining, _ := service.List(ctx, 42)
		assert.Len(t, remaining, 1)
	})
}

func validEntry(description string) Entry {
	return Entry{
		Kind:        KindDebt,
		Amount:      decimal.NewFromInt(100),
		Date:        time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Description: description,
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateInventoryItem(ctx, models.InventoryItem{ID: "flour", Name: "Flour", Stock: models.MustDecimal("5")}))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := store.AdjustStock(ctx, "flour", models.MustDecimal("-3"), false); err != nil {
			return err
		}
		if err := store.AppendInventoryChange(ctx, models.InventoryChange{ID: "c1", InventoryItemID: "flour"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	item, err := store.GetInventoryItem(ctx, "flour")
	require.NoError(t, err)
	assert.Equal(t, "5", item.Stock.String())

	changes, err := store.ListInventoryChanges(ctx, "flour")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestAdjustStockGuardsNegative(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CreateInventoryItem(ctx, models.InventoryItem{ID: "milk", Name: "Milk", Stock: models.MustDecimal("2")}))

	_, err := store.AdjustStock(ctx, "milk", models.MustDecimal("-2.5"), false)
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	item, err := store.AdjustStock(ctx, "milk", models.MustDecimal("-2.5"), true)
	require.NoError(t, err)
	assert.Equal(t, "-0.5", item.Stock.String())

	_, err = store.AdjustStock(ctx, "missing", models.MustDecimal("1"), true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindOpenShift(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	require.NoError(t, store.CreateShift(ctx, models.Shift{ID: "done", EmployeeID: "e1", Start: start, End: &end}))
	_, err := store.FindOpenShift(ctx, "e1")
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, store.CreateShift(ctx, models.Shift{ID: "open", EmployeeID: "e1", Start: end}))
	open, err := store.FindOpenShift(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "open", open.ID)

	shifts, err := store.ListShifts(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, shifts, 1, "window is half-open")
	assert.Equal(t, "done", shifts[0].ID)
}

func TestUsernamesAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.CreateUser(ctx, models.User{ID: "u1", Username: "admin"}))
	err := store.CreateUser(ctx, models.User{ID: "u2", Username: "Admin"})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	user, err := store.FindUserByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestLatestDayRecordBefore(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, date := range []string{"2024-03-01", "2024-03-14", "2024-03-15"} {
		require.NoError(t, store.UpsertDayRecord(ctx, models.DayRecord{Date: date}))
	}

	record, err := store.LatestDayRecordBefore(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", record.Date)

	_, err = store.LatestDayRecordBefore(ctx, "2024-03-01")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

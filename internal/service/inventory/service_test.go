package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository/memory"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)}
	return NewService(memory.NewStore(), calendar.New(time.UTC, clk.Now), nil), clk
}

func dec(s string) models.Decimal {
	return models.MustDecimal(s)
}

func TestDeliverThenConsume(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ItemInput{Name: "Flour", Unit: "kg", Stock: dec("5"), MinStock: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, models.StockOK, item.Status)

	delivered, err := svc.Deliver(ctx, item.ID, dec("10"), "weekly order")
	require.NoError(t, err)
	assert.True(t, delivered.Stock.Equal(dec("15")))

	clk.now = clk.now.Add(time.Hour)
	consumed, err := svc.Consume(ctx, item.ID, dec("10"), "")
	require.NoError(t, err)
	assert.True(t, consumed.Stock.Equal(dec("5")))

	changes, err := svc.Changes(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, models.ReasonConsumption, changes[0].Reason)
	assert.True(t, changes[0].Change.Equal(dec("-10")))
	assert.Equal(t, models.ReasonDelivery, changes[1].Reason)
	assert.True(t, changes[1].Change.Equal(dec("10")))
}

func TestConsumeBelowZeroIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ItemInput{Name: "Milk", Unit: "l", Stock: dec("3")})
	require.NoError(t, err)

	_, err = svc.Consume(ctx, item.ID, dec("3.5"), "")
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	got, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(dec("3")))

	changes, err := svc.Changes(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, changes)

	_, err = svc.Deliver(ctx, item.ID, dec("0"), "")
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestAdjustAndLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	eggs, err := svc.CreateItem(ctx, ItemInput{Name: "Eggs", Unit: "pcs", Stock: dec("30"), MinStock: dec("12")})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, ItemInput{Name: "Salt", Unit: "kg", Stock: dec("4"), MinStock: dec("1")})
	require.NoError(t, err)

	adjusted, err := svc.Adjust(ctx, eggs.ID, dec("10"), "stock take")
	require.NoError(t, err)
	assert.Equal(t, models.StockLow, adjusted.Status)

	changes, err := svc.Changes(ctx, eggs.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.ReasonAdjustment, changes[0].Reason)
	assert.True(t, changes[0].Change.Equal(dec("-20")))

	_, err = svc.Adjust(ctx, eggs.ID, dec("10"), "")
	require.NoError(t, err)
	changes, err = svc.Changes(ctx, eggs.ID)
	require.NoError(t, err)
	assert.Len(t, changes, 1)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Eggs", low[0].Name)

	_, err = svc.Changes(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestItemValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateItem(context.Background(), ItemInput{Name: "Oil"})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = svc.CreateItem(context.Background(), ItemInput{Name: "Oil", Unit: "l", Stock: dec("-1")})
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

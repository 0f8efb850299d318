package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository/memory"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

const today = "2024-03-15"

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }
func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

type recordingExporter struct {
	records []models.DayRecord
}

func (e *recordingExporter) ExportDayRecord(_ context.Context, record models.DayRecord) error {
	e.records = append(e.records, record)
	return nil
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	clock    *clock
	notifier *recordingNotifier
	exporter *recordingExporter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store:    memory.NewStore(),
		clock:    &clock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
		exporter: &recordingExporter{},
	}
	cal := calendar.New(time.UTC, f.clock.Now)
	f.svc = NewService(f.store, f.notifier, f.exporter, cal, money("200"), zap.NewNop())
	return f
}

func (f fixture) menuItem(t *testing.T, id, price string, ingredients ...models.Ingredient) {
	t.Helper()
	require.NoError(t, f.store.CreateMenuItem(context.Background(), models.MenuItem{
		ID:          id,
		Name:        id,
		Category:    "Main",
		Price:       money(price),
		Ingredients: ingredients,
	}))
}

func money(s string) models.Decimal {
	return models.MustDecimal(s)
}

func ptr(s string) *models.Decimal {
	return models.DecimalPtr(money(s))
}

func assertMoney(t *testing.T, want string, got models.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(money(want)), "want %s, got %s", want, got.String())
}

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.menuItem(t, "plate", "25")

	_, err := f.svc.SetStartCash(ctx, today, money("100"))
	require.NoError(t, err)

	session, err := f.svc.StartSession(ctx, "Lunch")
	require.NoError(t, err)
	assert.True(t, session.Active)
	assert.Equal(t, today, session.Date)

	sale, err := f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "plate", Quantity: 1, PaymentType: models.PaymentCash})
	require.NoError(t, err)
	assertMoney(t, "25", sale.Session.TotalRevenue)

	_, updated, err := f.svc.RecordExpense(ctx, ExpenseRequest{Description: "Bread", Amount: money("10")})
	require.NoError(t, err)
	assertMoney(t, "10", updated.TotalExpenses)

	f.clock.advance(4 * time.Hour)
	result, err := f.svc.CloseSession(ctx, session.ID, CloseRequest{
		CashRevenue: ptr("25"),
		CardRevenue: ptr("0"),
		ActualCash:  ptr("115"),
	})
	require.NoError(t, err)

	closed := result.Session
	require.NotNil(t, closed.Closing)
	assert.True(t, closed.Closed)
	assert.False(t, closed.Active)
	require.NotNil(t, closed.EndTime)
	assertMoney(t, "100", closed.Closing.StartCash)
	assertMoney(t, "115", closed.Closing.ExpectedCash)
	assertMoney(t, "0", closed.Closing.Difference)
	assertMoney(t, "15", closed.Closing.NetProfit)

	day, err := f.svc.DayRecord(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, day.ClosedSessions)
	assertMoney(t, "100", day.StartCash)
	assertMoney(t, "115", day.EndCash)
	assertMoney(t, "25", day.SalesCash)
	assertMoney(t, "15", day.FinalProfit)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "Session closed: Lunch")

	_, err = f.svc.CloseSession(ctx, session.ID, CloseRequest{CashRevenue: ptr("25"), CardRevenue: ptr("0"), ActualCash: ptr("115")})
	assert.ErrorIs(t, err, models.ErrSessionClosed)
}

func TestCloseSessionSplitTolerance(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)
		f.menuItem(t, "menu", "60")
		session, err := f.svc.StartSession(ctx, "")
		require.NoError(t, err)
		_, err = f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "menu", Quantity: 2})
		require.NoError(t, err)

		result, err := f.svc.CloseSession(ctx, session.ID, CloseRequest{
			CashRevenue: ptr("70.00"),
			CardRevenue: ptr("50.00"),
			ActualCash:  ptr("270.00"),
		})
		require.NoError(t, err)
		assertMoney(t, "70", result.Session.CashSales)
		assertMoney(t, "50", result.Session.CardSales)
	})

	t.Run("rejected without side effects", func(t *testing.T) {
		f := newFixture(t)
		f.menuItem(t, "menu", "60")
		session, err := f.svc.StartSession(ctx, "")
		require.NoError(t, err)
		_, err = f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "menu", Quantity: 2})
		require.NoError(t, err)

		_, err = f.svc.CloseSession(ctx, session.ID, CloseRequest{
			CashRevenue: ptr("70.00"),
			CardRevenue: ptr("49.99"),
			ActualCash:  ptr("270.00"),
		})
		require.ErrorIs(t, err, models.ErrSplitMismatch)

		stored, err := f.store.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, stored.Closed)
		assert.True(t, stored.Active)
		assert.Nil(t, stored.Closing)

		_, err = f.store.GetDayRecord(ctx, today)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, f.notifier.messages)
	})
}

func TestCloseSessionRequiresActualCash(t *testing.T) {
	f := newFixture(t)
	session, err := f.svc.StartSession(context.Background(), "")
	require.NoError(t, err)

	_, err = f.svc.CloseSession(context.Background(), session.ID, CloseRequest{CashRevenue: ptr("0"), CardRevenue: ptr("0")})
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestStartSessionHandsOver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.menuItem(t, "coffee", "3.20")

	first, err := f.svc.StartSession(ctx, "Morning")
	require.NoError(t, err)
	_, err = f.svc.RecordSale(ctx, SaleRequest{SessionID: first.ID, MenuItemID: "coffee", Quantity: 1})
	require.NoError(t, err)

	f.clock.advance(time.Hour)
	second, err := f.svc.StartSession(ctx, "Noon")
	require.NoError(t, err)

	active, err := f.svc.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	_, err = f.svc.RecordSale(ctx, SaleRequest{SessionID: first.ID, MenuItemID: "coffee", Quantity: 1})
	assert.ErrorIs(t, err, models.ErrSessionInactive)

	// The handed-over session can still be closed; the next one starts from its count.
	_, err = f.svc.CloseSession(ctx, first.ID, CloseRequest{CashRevenue: ptr("3.20"), CardRevenue: ptr("0"), ActualCash: ptr("203.00")})
	require.NoError(t, err)

	result, err := f.svc.CloseSession(ctx, second.ID, CloseRequest{CashRevenue: ptr("0"), CardRevenue: ptr("0"), ActualCash: ptr("203.00")})
	require.NoError(t, err)
	assertMoney(t, "203", result.Session.Closing.StartCash)
	assert.Equal(t, 2, result.DayRecord.ClosedSessions)

	list, err := f.svc.ListSessions(ctx, today)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestRecordSaleWithoutActiveSession(t *testing.T) {
	f := newFixture(t)
	f.menuItem(t, "plate", "25")

	_, err := f.svc.RecordSale(context.Background(), SaleRequest{MenuItemID: "plate", Quantity: 1})
	assert.ErrorIs(t, err, models.ErrNoActiveSession)

	_, err = f.svc.RecordSale(context.Background(), SaleRequest{MenuItemID: "plate", Quantity: 0})
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestRecordSaleTakesIngredients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.CreateInventoryItem(ctx, models.InventoryItem{ID: "patty", Name: "Patty", Unit: "pcs", Stock: money("1")}))
	f.menuItem(t, "burger", "9.50", models.Ingredient{InventoryItemID: "patty", Quantity: money("1")})

	_, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	result, err := f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "burger", Quantity: 2, PaymentType: models.PaymentCard})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Patty")
	assertMoney(t, "19", result.Session.CardSales)
	assert.Equal(t, 2, result.Session.ItemsSold)

	patty, err := f.store.GetInventoryItem(ctx, "patty")
	require.NoError(t, err)
	assertMoney(t, "-1", patty.Stock)

	changes, err := f.store.ListInventoryChanges(ctx, "patty")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.ReasonSale, changes[0].Reason)
	assertMoney(t, "-2", changes[0].Change)

	burger, err := f.store.GetMenuItem(ctx, "burger")
	require.NoError(t, err)
	assert.Equal(t, 2, burger.SoldCount)

	session, err := f.svc.VoidSale(ctx, result.Sale.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalRevenue.IsZero())
	assert.Equal(t, 0, session.ItemsSold)

	patty, err = f.store.GetInventoryItem(ctx, "patty")
	require.NoError(t, err)
	assertMoney(t, "1", patty.Stock)

	burger, err = f.store.GetMenuItem(ctx, "burger")
	require.NoError(t, err)
	assert.Equal(t, 0, burger.SoldCount)
}

func TestCloseSessionCountsStaffInWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.menuItem(t, "plate", "50")

	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	_, err = f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "plate", Quantity: 1})
	require.NoError(t, err)

	wage := money("24")
	end := session.StartTime.Add(2 * time.Hour)
	require.NoError(t, f.store.CreateShift(ctx, models.Shift{ID: "in", EmployeeID: "e1", Start: session.StartTime.Add(time.Minute), End: &end, Wage: &wage}))
	require.NoError(t, f.store.CreateShift(ctx, models.Shift{ID: "before", EmployeeID: "e2", Start: session.StartTime.Add(-time.Hour), End: &end, Wage: &wage}))

	f.clock.advance(3 * time.Hour)
	result, err := f.svc.CloseSession(ctx, session.ID, CloseRequest{CashRevenue: ptr("50"), CardRevenue: ptr("0"), ActualCash: ptr("250")})
	require.NoError(t, err)
	assertMoney(t, "24", result.Session.Closing.StaffCosts)
	assertMoney(t, "26", result.Session.Closing.NetProfit)
	assertMoney(t, "52", result.Margin)
}

func TestStartCashCarriesOver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	record, err := f.svc.DayRecord(ctx, today)
	require.NoError(t, err)
	assertMoney(t, "200", record.StartCash)

	require.NoError(t, f.store.UpsertDayRecord(ctx, models.DayRecord{Date: "2024-03-14", StartCash: money("150"), EndCash: money("180.40")}))

	record, err = f.svc.DayRecord(ctx, today)
	require.NoError(t, err)
	assertMoney(t, "180.40", record.StartCash)
	assert.False(t, record.DayStarted)
}

func TestSaveDayClosingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.menuItem(t, "plate", "25")

	_, err := f.svc.SetStartCash(ctx, today, money("100"))
	require.NoError(t, err)
	_, err = f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	_, err = f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "plate", Quantity: 2, PaymentType: models.PaymentCard})
	require.NoError(t, err)
	_, err = f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "plate", Quantity: 1, PaymentType: models.PaymentCash})
	require.NoError(t, err)
	_, _, err = f.svc.RecordExpense(ctx, ExpenseRequest{Description: "Ice", Amount: money("5")})
	require.NoError(t, err)

	first, err := f.svc.SaveDayClosing(ctx, today, DayClosingRequest{ActualCash: ptr("118")})
	require.NoError(t, err)
	assertMoney(t, "25", first.SalesCash)
	assertMoney(t, "50", first.SalesCard)
	assertMoney(t, "-2", *first.Difference)

	second, err := f.svc.SaveDayClosing(ctx, today, DayClosingRequest{ActualCash: ptr("120")})
	require.NoError(t, err)
	assertMoney(t, "0", *second.Difference)

	stored, err := f.store.GetDayRecord(ctx, today)
	require.NoError(t, err)
	assert.True(t, stored.DayClosed)
	assertMoney(t, "120", stored.EndCash)
	assertMoney(t, "75", stored.FinalRevenue)
	assertMoney(t, "70", stored.FinalProfit)

	latest, err := f.store.LatestDayRecordBefore(ctx, "2024-03-16")
	require.NoError(t, err)
	assert.Equal(t, today, latest.Date)
	assert.Len(t, f.exporter.records, 2)

	_, err = f.svc.SaveDayClosing(ctx, today, DayClosingRequest{})
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestDeleteSessionsForDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.menuItem(t, "plate", "25")

	_, err := f.svc.SetStartCash(ctx, today, money("90"))
	require.NoError(t, err)
	session, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	_, err = f.svc.RecordSale(ctx, SaleRequest{MenuItemID: "plate", Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.CloseSession(ctx, session.ID, CloseRequest{CashRevenue: ptr("25"), CardRevenue: ptr("0"), ActualCash: ptr("115")})
	require.NoError(t, err)

	deleted, err := f.svc.DeleteSessionsForDate(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = f.store.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	sales, err := f.store.ListSalesBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, sales)

	record, err := f.store.GetDayRecord(ctx, today)
	require.NoError(t, err)
	assertMoney(t, "90", record.StartCash)
	assertMoney(t, "90", record.EndCash)
	assert.Equal(t, 0, record.ClosedSessions)

	plate, err := f.store.GetMenuItem(ctx, "plate")
	require.NoError(t, err)
	assert.Equal(t, 0, plate.SoldCount)
}

func TestQuickExpenses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	qe, err := f.svc.CreateQuickExpense(ctx, QuickExpenseInput{Name: "Ice", DefaultAmount: money("4.50")})
	require.NoError(t, err)
	assert.True(t, qe.Active)
	assert.Equal(t, defaultExpenseCategory, qe.Category)

	_, err = f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	expense, session, err := f.svc.RecordQuickExpense(ctx, qe.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Ice", expense.Description)
	assertMoney(t, "4.50", session.TotalExpenses)

	qe, err = f.svc.ToggleQuickExpense(ctx, qe.ID)
	require.NoError(t, err)
	assert.False(t, qe.Active)

	_, _, err = f.svc.RecordQuickExpense(ctx, qe.ID, "")
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	session, err = f.svc.DeleteExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalExpenses.IsZero())
}

func TestRecordExpenseValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.StartSession(context.Background(), "")
	require.NoError(t, err)

	_, _, err = f.svc.RecordExpense(context.Background(), ExpenseRequest{Description: "Ice", Amount: money("-1")})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, _, err = f.svc.RecordExpense(context.Background(), ExpenseRequest{Amount: money("1")})
	assert.True(t, errors.As(err, new(*models.Error)))
}

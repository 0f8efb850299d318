package accounting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func money(s string) models.Decimal {
	return models.MustDecimal(s)
}

func assertMoney(t *testing.T, want string, got models.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(money(want)), "want %s, got %s", want, got.String())
}

func TestValidateSplit(t *testing.T) {
	revenue := money("120.00")

	tests := []struct {
		name      string
		cash      string
		card      string
		wantErr   error
		wantValid bool
	}{
		{name: "exact", cash: "70.00", card: "50.00"},
		{name: "within a cent", cash: "70.00", card: "50.005"},
		{name: "one cent short", cash: "70.00", card: "49.99", wantErr: models.ErrSplitMismatch},
		{name: "too much", cash: "80.00", card: "50.00", wantErr: models.ErrSplitMismatch},
		{name: "negative card", cash: "130.00", card: "-10.00", wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplit(revenue, money(tt.cash), money(tt.card))
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			case tt.wantValid:
				assert.Equal(t, models.KindValidation, models.KindOf(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	rec := Reconcile(ReconciliationInput{
		StartCash:   money("100"),
		CashRevenue: money("25"),
		CardRevenue: money("0"),
		Expenses:    money("10"),
		ActualCash:  money("115"),
	})

	assertMoney(t, "115", rec.ExpectedCash)
	assertMoney(t, "0", rec.Difference)
	assertMoney(t, "15", rec.NetProfit)
	assertMoney(t, "60", rec.Margin)
}

func TestReconcileCardNeverEntersDrawer(t *testing.T) {
	rec := Reconcile(ReconciliationInput{
		StartCash:   money("200"),
		CashRevenue: money("40"),
		CardRevenue: money("60"),
		Expenses:    money("5"),
		StaffCosts:  money("30"),
		ActualCash:  money("230"),
	})

	assertMoney(t, "235", rec.ExpectedCash)
	assertMoney(t, "-5", rec.Difference)
	assertMoney(t, "100", rec.Revenue)
	assertMoney(t, "65", rec.NetProfit)
}

func TestMarginWithoutRevenue(t *testing.T) {
	assert.True(t, Margin(money("-20"), models.Decimal{}).IsZero())
}

func TestShiftPay(t *testing.T) {
	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	hours, wage := ShiftPay(start, start.Add(7*time.Hour+30*time.Minute), money("12.40"))
	assertMoney(t, "7.5", hours)
	assertMoney(t, "93", wage)

	hours, wage = ShiftPay(start, start.Add(20*time.Minute), money("13"))
	assertMoney(t, "0.3333", hours)
	assertMoney(t, "4.33", wage)

	hours, wage = ShiftPay(start, start.Add(-time.Minute), money("13"))
	assert.True(t, hours.IsZero())
	assert.True(t, wage.IsZero())
}

func TestStaffCosts(t *testing.T) {
	from := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	to := from.Add(6 * time.Hour)
	end := to
	paid := money("24")

	shifts := []models.Shift{
		{ID: "inside", Start: from.Add(time.Hour), End: &end, Wage: &paid},
		{ID: "at start", Start: from, End: &end, Wage: &paid},
		{ID: "before", Start: from.Add(-time.Minute), End: &end, Wage: &paid},
		{ID: "after", Start: to.Add(time.Minute), End: &end, Wage: &paid},
		{ID: "open", Start: from.Add(time.Hour)},
	}

	assertMoney(t, "48", StaffCosts(shifts, from, to))
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, models.StockEmpty, StockStatus(money("0"), money("5")))
	assert.Equal(t, models.StockEmpty, StockStatus(money("-1"), money("5")))
	assert.Equal(t, models.StockLow, StockStatus(money("5"), money("5")))
	assert.Equal(t, models.StockLow, StockStatus(money("0.5"), money("5")))
	assert.Equal(t, models.StockOK, StockStatus(money("5.01"), money("5")))
}

func TestSessionTotals(t *testing.T) {
	sales := []models.Sale{
		{Price: money("12.50"), Quantity: 2, PaymentType: models.PaymentCash},
		{Price: money("3.20"), Quantity: 1, PaymentType: models.PaymentCard},
		{Price: money("4.00"), Quantity: 3},
	}
	expenses := []models.Expense{{Amount: money("10")}, {Amount: money("2.35")}}

	totals := SessionTotals(sales, expenses)
	assertMoney(t, "40.20", totals.Revenue)
	assertMoney(t, "25", totals.Cash)
	assertMoney(t, "3.20", totals.Card)
	assertMoney(t, "12", totals.Unassigned)
	assertMoney(t, "12.35", totals.Expenses)
	assert.Equal(t, 6, totals.ItemsSold)
}

func TestDaySales(t *testing.T) {
	sessions := []models.Session{
		{ID: "closed", Closed: true, CashSales: money("30"), CardSales: money("20")},
		{ID: "open", Active: true},
	}
	sales := []models.Sale{
		{SessionID: "closed", Price: money("50"), Quantity: 1},
		{SessionID: "open", Price: money("8"), Quantity: 1, PaymentType: models.PaymentCard},
		{SessionID: "open", Price: money("5"), Quantity: 2},
	}

	split := DaySales(sales, sessions)
	assertMoney(t, "30", split.Cash)
	assertMoney(t, "28", split.Card)
	assertMoney(t, "10", split.Unassigned)
	assertMoney(t, "68", split.Total)
}

// Package accounting holds the pure money arithmetic of the till. Nothing
// here touches storage or the clock.
package accounting

import (
	"fmt"
	"time"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

// SplitTolerance is how far a declared cash/card split may drift from the
// recorded revenue.
var SplitTolerance = models.Cent

var millisPerHour = models.DecimalFromInt(int64(time.Hour / time.Millisecond))

// Totals aggregates the sales and expenses of one session.
type Totals struct {
	Revenue    models.Decimal
	Cash       models.Decimal
	Card       models.Decimal
	Unassigned models.Decimal
	Expenses   models.Decimal
	ItemsSold  int
}

// SessionTotals sums sales by payment type together with expenses.
func SessionTotals(sales []models.Sale, expenses []models.Expense) Totals {
	var t Totals
	for _, sale := range sales {
		total := sale.Total()
		t.Revenue = t.Revenue.Add(total)
		t.ItemsSold += sale.Quantity
		switch sale.PaymentType {
		case models.PaymentCash:
			t.Cash = t.Cash.Add(total)
		case models.PaymentCard:
			t.Card = t.Card.Add(total)
		default:
			t.Unassigned = t.Unassigned.Add(total)
		}
	}
	for _, expense := range expenses {
		t.Expenses = t.Expenses.Add(expense.Amount)
	}
	return t
}

// ValidateSplit accepts a declared cash/card split when it matches the
// recorded revenue to within SplitTolerance.
func ValidateSplit(revenue, cash, card models.Decimal) error {
	if cash.IsNegative() || card.IsNegative() {
		return models.Validationf("cash and card revenue must not be negative")
	}
	sum := cash.Add(card)
	if sum.Sub(revenue).Abs().GreaterThanOrEqual(SplitTolerance) {
		return fmt.Errorf("%w: %s + %s = %s, recorded %s",
			models.ErrSplitMismatch, cash.Money(), card.Money(), sum.Money(), revenue.Money())
	}
	return nil
}

// ReconciliationInput is what a session closing starts from.
type ReconciliationInput struct {
	StartCash   models.Decimal
	CashRevenue models.Decimal
	CardRevenue models.Decimal
	Expenses    models.Decimal
	StaffCosts  models.Decimal
	ActualCash  models.Decimal
}

// Reconciliation is the outcome of a cash count.
type Reconciliation struct {
	ExpectedCash models.Decimal
	Difference   models.Decimal
	Revenue      models.Decimal
	NetProfit    models.Decimal
	Margin       models.Decimal
}

// Reconcile computes expected cash, the counted difference and net profit.
// Card revenue never enters the drawer.
func Reconcile(in ReconciliationInput) Reconciliation {
	expected := in.StartCash.Add(in.CashRevenue).Sub(in.Expenses)
	revenue := in.CashRevenue.Add(in.CardRevenue)
	profit := revenue.Sub(in.Expenses).Sub(in.StaffCosts)
	return Reconciliation{
		ExpectedCash: expected,
		Difference:   in.ActualCash.Sub(expected),
		Revenue:      revenue,
		NetProfit:    profit,
		Margin:       Margin(profit, revenue),
	}
}

// Margin is profit over revenue as a percentage, 0 without revenue.
func Margin(profit, revenue models.Decimal) models.Decimal {
	if revenue.IsZero() {
		return models.Decimal{}
	}
	return profit.Mul(models.DecimalFromInt(100)).Div(revenue).Round(2)
}

// ShiftPay returns the worked hours and the wage of a shift. The wage is
// rounded to cents, hours to four places.
func ShiftPay(start, end time.Time, hourlyWage models.Decimal) (hours, wage models.Decimal) {
	if !end.After(start) {
		return models.Decimal{}, models.Decimal{}
	}
	millis := models.DecimalFromInt(end.Sub(start).Milliseconds())
	hours = millis.Div(millisPerHour)
	wage = millis.Mul(hourlyWage).Div(millisPerHour).Round(2)
	return hours, wage
}

// StaffCosts sums the wages of completed shifts that started inside
// [from, to].
func StaffCosts(shifts []models.Shift, from, to time.Time) models.Decimal {
	var total models.Decimal
	for _, shift := range shifts {
		if shift.Open() || shift.Wage == nil {
			continue
		}
		if shift.Start.Before(from) || shift.Start.After(to) {
			continue
		}
		total = total.Add(*shift.Wage)
	}
	return total
}

// StockStatus derives the status shown next to an inventory item.
func StockStatus(stock, minStock models.Decimal) models.StockStatus {
	switch {
	case stock.LessThanOrEqual(models.Decimal{}):
		return models.StockEmpty
	case stock.LessThanOrEqual(minStock):
		return models.StockLow
	default:
		return models.StockOK
	}
}

// DaySales splits a day's revenue. Closed sessions contribute their declared
// split; sales of sessions still open are bucketed by their own payment type.
func DaySales(sales []models.Sale, sessions []models.Session) models.RevenueBreakdown {
	closed := make(map[string]bool, len(sessions))
	var out models.RevenueBreakdown
	for _, session := range sessions {
		if !session.Closed {
			continue
		}
		closed[session.ID] = true
		out.Cash = out.Cash.Add(session.CashSales)
		out.Card = out.Card.Add(session.CardSales)
	}
	for _, sale := range sales {
		if closed[sale.SessionID] {
			continue
		}
		switch sale.PaymentType {
		case models.PaymentCash:
			out.Cash = out.Cash.Add(sale.Total())
		case models.PaymentCard:
			out.Card = out.Card.Add(sale.Total())
		default:
			out.Unassigned = out.Unassigned.Add(sale.Total())
		}
	}
	out.Total = out.Cash.Add(out.Card).Add(out.Unassigned)
	return out
}

// Package reporting derives read-only views from the till's records: chef
// reports, the daily cash closing and the dashboard.
package reporting

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/accounting"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

const topItemsLimit = 10

// Store is the read side of the persistence port used for reports.
type Store interface {
	ListSales(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	ListShifts(ctx context.Context, from, to time.Time) ([]models.Shift, error)
	ListOpenShifts(ctx context.Context) ([]models.Shift, error)
	ListSessionsByDate(ctx context.Context, date string) ([]models.Session, error)
	FindActiveSession(ctx context.Context, date string) (models.Session, error)
	ListInventoryItems(ctx context.Context) ([]models.InventoryItem, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
}

// DayLedger resolves a day record, seeding days that have none yet.
type DayLedger interface {
	DayRecord(ctx context.Context, date string) (models.DayRecord, error)
}

// Service builds reports.
type Service struct {
	store  Store
	ledger DayLedger
	cal    calendar.Calendar
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store Store, ledger DayLedger, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, cal: cal, logger: logger}
}

// activity is everything booked inside one window.
type activity struct {
	sales    []models.Sale
	expenses []models.Expense
	shifts   []models.Shift
	sessions []models.Session
}

func (s *Service) load(ctx context.Context, from, to time.Time) (activity, error) {
	var a activity
	var err error

	if a.sales, err = s.store.ListSales(ctx, from, to); err != nil {
		return a, fmt.Errorf("load sales: %w", err)
	}
	if a.expenses, err = s.store.ListExpenses(ctx, from, to); err != nil {
		return a, fmt.Errorf("load expenses: %w", err)
	}
	if a.shifts, err = s.store.ListShifts(ctx, from, to); err != nil {
		return a, fmt.Errorf("load shifts: %w", err)
	}
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		sessions, err := s.store.ListSessionsByDate(ctx, s.cal.DateOf(day))
		if err != nil {
			return a, fmt.Errorf("load sessions: %w", err)
		}
		a.sessions = append(a.sessions, sessions...)
	}
	return a, nil
}

func (a activity) revenue() models.RevenueBreakdown {
	return accounting.DaySales(a.sales, a.sessions)
}

func (a activity) expenseTotal() models.Decimal {
	return accounting.SessionTotals(nil, a.expenses).Expenses
}

func (a activity) itemsSold() int {
	n := 0
	for _, sale := range a.sales {
		n += sale.Quantity
	}
	return n
}

// ChefReport summarizes revenue, costs, best sellers and stock warnings for
// the day, week or month containing date.
func (s *Service) ChefReport(ctx context.Context, period models.Period, date string) (models.ChefReport, error) {
	if period == "" {
		period = models.PeriodDay
	}
	from, to, err := s.cal.Period(period, date)
	if err != nil {
		return models.ChefReport{}, err
	}

	a, err := s.load(ctx, from, to)
	if err != nil {
		return models.ChefReport{}, err
	}

	revenue := a.revenue()
	costs := models.CostBreakdown{
		Expenses: a.expenseTotal(),
		Staff:    accounting.StaffCosts(a.shifts, from, to),
	}
	costs.Total = costs.Expenses.Add(costs.Staff)
	profit := revenue.Total.Sub(costs.Total)

	top, err := s.topSellers(ctx, a.sales)
	if err != nil {
		return models.ChefReport{}, err
	}
	warnings, err := s.StockWarnings(ctx)
	if err != nil {
		return models.ChefReport{}, err
	}

	return models.ChefReport{
		Period:            period,
		Start:             from,
		End:               to,
		Revenue:           revenue,
		Costs:             costs,
		Profit:            profit,
		Margin:            accounting.Margin(profit, revenue.Total),
		TopSellingItems:   top,
		InventoryWarnings: warnings,
	}, nil
}

func (s *Service) topSellers(ctx context.Context, sales []models.Sale) ([]models.ItemSales, error) {
	menu, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	categories := make(map[string]string, len(menu))
	for _, item := range menu {
		categories[item.ID] = item.Category
	}

	byItem := make(map[string]*models.ItemSales)
	for _, sale := range sales {
		line, ok := byItem[sale.MenuItemID]
		if !ok {
			line = &models.ItemSales{
				MenuItemID: sale.MenuItemID,
				Name:       sale.MenuItemName,
				Category:   categories[sale.MenuItemID],
			}
			byItem[sale.MenuItemID] = line
		}
		line.Count += sale.Quantity
		line.Revenue = line.Revenue.Add(sale.Total())
	}

	out := make([]models.ItemSales, 0, len(byItem))
	for _, line := range byItem {
		out = append(out, *line)
	}
	slices.SortFunc(out, func(a, b models.ItemSales) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(out) > topItemsLimit {
		out = out[:topItemsLimit]
	}
	return out, nil
}

// StockWarnings lists inventory items that are empty or running low.
func (s *Service) StockWarnings(ctx context.Context) ([]models.StockWarning, error) {
	items, err := s.store.ListInventoryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	out := make([]models.StockWarning, 0)
	for _, item := range items {
		status := accounting.StockStatus(item.Stock, item.MinStock)
		if status == models.StockOK {
			continue
		}
		out = append(out, models.StockWarning{
			Name:         item.Name,
			CurrentStock: item.Stock,
			MinStock:     item.MinStock,
			Unit:         item.Unit,
			Status:       status,
		})
	}
	return out, nil
}

// DailyClosing is the cash position of date: opening balance plus cash
// sales minus expenses, against the count recorded at day closing.
func (s *Service) DailyClosing(ctx context.Context, date string) (models.DailyClosingReport, error) {
	date, err := s.cal.Normalize(date)
	if err != nil {
		return models.DailyClosingReport{}, err
	}
	from, to, err := s.cal.Day(date)
	if err != nil {
		return models.DailyClosingReport{}, err
	}

	record, err := s.ledger.DayRecord(ctx, date)
	if err != nil {
		return models.DailyClosingReport{}, err
	}
	a, err := s.load(ctx, from, to)
	if err != nil {
		return models.DailyClosingReport{}, err
	}

	sales := a.revenue()
	expenses := a.expenseTotal()
	report := models.DailyClosingReport{
		Date:            date,
		PreviousBalance: record.StartCash,
		Sales:           sales,
		Expenses:        expenses,
		StaffCosts:      accounting.StaffCosts(a.shifts, from, to),
		ExpectedCash:    record.StartCash.Add(sales.Cash).Add(sales.Unassigned).Sub(expenses),
		IsRecorded:      record.DayClosed,
	}
	if record.DayClosed {
		report.ActualCash = record.ActualCash
		report.Difference = record.Difference
	}
	return report, nil
}

// Dashboard is the landing page summary of date.
func (s *Service) Dashboard(ctx context.Context, date string) (models.DashboardStats, error) {
	date, err := s.cal.Normalize(date)
	if err != nil {
		return models.DashboardStats{}, err
	}
	from, to, err := s.cal.Day(date)
	if err != nil {
		return models.DashboardStats{}, err
	}

	record, err := s.ledger.DayRecord(ctx, date)
	if err != nil {
		return models.DashboardStats{}, err
	}
	a, err := s.load(ctx, from, to)
	if err != nil {
		return models.DashboardStats{}, err
	}
	open, err := s.store.ListOpenShifts(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("load open shifts: %w", err)
	}
	warnings, err := s.StockWarnings(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	revenue := a.revenue()
	expenses := a.expenseTotal()
	staff := accounting.StaffCosts(a.shifts, from, to)

	balance := record.StartCash.Add(revenue.Cash).Add(revenue.Unassigned).Sub(expenses)
	if record.DayClosed {
		balance = record.EndCash
	}

	stats := models.DashboardStats{
		Date:            date,
		TodayRevenue:    revenue.Total,
		TodayExpenses:   expenses,
		TodayStaffCosts: staff,
		TodayProfit:     revenue.Total.Sub(expenses).Sub(staff),
		CashBalance:     balance,
		CardSales:       revenue.Card,
		ActiveEmployees: len(open),
		LowStockItems:   len(warnings),
		TodayItemsSold:  a.itemsSold(),
	}

	active, err := s.store.FindActiveSession(ctx, date)
	switch {
	case err == nil:
		stats.ActiveSession = &active.ID
	case !errors.Is(err, models.ErrNotFound):
		return models.DashboardStats{}, fmt.Errorf("find active session: %w", err)
	}
	return stats, nil
}

// FormatDailySummary renders a chef report as a plain-text message.
func FormatDailySummary(report models.ChefReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily summary %s\n", report.Start.Format(models.DateLayout))
	fmt.Fprintf(&b, "Revenue: %s (cash %s, card %s", report.Revenue.Total.Money(), report.Revenue.Cash.Money(), report.Revenue.Card.Money())
	if !report.Revenue.Unassigned.IsZero() {
		fmt.Fprintf(&b, ", open %s", report.Revenue.Unassigned.Money())
	}
	b.WriteString(")\n")
	fmt.Fprintf(&b, "Costs: %s (expenses %s, staff %s)\n", report.Costs.Total.Money(), report.Costs.Expenses.Money(), report.Costs.Staff.Money())
	fmt.Fprintf(&b, "Profit: %s, margin %s%%", report.Profit.Money(), report.Margin.StringFixed(1))

	if len(report.TopSellingItems) > 0 {
		b.WriteString("\nTop sellers:")
		for i, item := range report.TopSellingItems {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "\n%d. %s x%d (%s)", i+1, item.Name, item.Count, item.Revenue.Money())
		}
	}

	if len(report.InventoryWarnings) == 0 {
		return b.String()
	}
	b.WriteString("\nLow stock:")
	for _, warning := range report.InventoryWarnings {
		fmt.Fprintf(&b, "\n- %s: %s %s (%s)", warning.Name, warning.CurrentStock.String(), warning.Unit, warning.Status)
	}
	return b.String()
}

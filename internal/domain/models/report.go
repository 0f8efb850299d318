package models

import "time"

// Period selects the window of a chef report.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// RevenueBreakdown splits revenue by payment type. Unassigned holds sales of
// sessions that have not been closed yet.
type RevenueBreakdown struct {
	Total      Decimal `json:"total"`
	Cash       Decimal `json:"cash"`
	Card       Decimal `json:"card"`
	Unassigned Decimal `json:"unassigned"`
}

// CostBreakdown groups what the period cost.
type CostBreakdown struct {
	Expenses Decimal `json:"expenses"`
	Staff    Decimal `json:"staff"`
	Total    Decimal `json:"total"`
}

// ItemSales is a per-menu-item line of the top sellers list.
type ItemSales struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Revenue    Decimal `json:"revenue"`
}

// StockWarning flags an inventory item at or below its minimum.
type StockWarning struct {
	Name         string      `json:"name"`
	CurrentStock Decimal     `json:"currentStock"`
	MinStock     Decimal     `json:"minStock"`
	Unit         string      `json:"unit"`
	Status       StockStatus `json:"status"`
}

// ChefReport summarizes a day, week or month.
type ChefReport struct {
	Period            Period           `json:"period"`
	Start             time.Time        `json:"start"`
	End               time.Time        `json:"end"`
	Revenue           RevenueBreakdown `json:"revenue"`
	Costs             CostBreakdown    `json:"costs"`
	Profit            Decimal          `json:"profit"`
	Margin            Decimal          `json:"margin"`
	TopSellingItems   []ItemSales      `json:"topSellingItems"`
	InventoryWarnings []StockWarning   `json:"inventoryWarnings"`
}

// DailyClosingReport is the cash position of one calendar day.
type DailyClosingReport struct {
	Date            string           `json:"date"`
	PreviousBalance Decimal          `json:"previousBalance"`
	Sales           RevenueBreakdown `json:"sales"`
	Expenses        Decimal          `json:"expenses"`
	StaffCosts      Decimal          `json:"staffCosts"`
	ExpectedCash    Decimal          `json:"expectedCash"`
	ActualCash      *Decimal         `json:"actualCash"`
	Difference      *Decimal         `json:"difference"`
	IsRecorded      bool             `json:"isRecorded"`
}

// DashboardStats is the landing page summary.
type DashboardStats struct {
	Date            string  `json:"date"`
	TodayRevenue    Decimal `json:"todayRevenue"`
	TodayExpenses   Decimal `json:"todayExpenses"`
	TodayStaffCosts Decimal `json:"todayStaffCosts"`
	TodayProfit     Decimal `json:"todayProfit"`
	CashBalance     Decimal `json:"cashBalance"`
	CardSales       Decimal `json:"cardSales"`
	ActiveEmployees int     `json:"activeEmployees"`
	LowStockItems   int     `json:"lowStockItems"`
	TodayItemsSold  int     `json:"todayItemsSold"`
	ActiveSession   *string `json:"activeSessionId,omitempty"`
}

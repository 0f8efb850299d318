package models

import "time"

// DateLayout is the calendar-day key used by sessions and day records.
const DateLayout = "2006-01-02"

// DayRecord is the per-day cash ledger. There is exactly one per date.
type DayRecord struct {
	Date            string    `bson:"_id" json:"date"`
	StartCash       Decimal   `bson:"start_cash" json:"startCash"`
	SalesCash       Decimal   `bson:"sales_cash" json:"salesCash"`
	SalesCard       Decimal   `bson:"sales_card" json:"salesCard"`
	Expenses        Decimal   `bson:"expenses" json:"expenses"`
	EndCash         Decimal   `bson:"end_cash" json:"endCash"`
	ActualCash      *Decimal  `bson:"actual_cash,omitempty" json:"actualCash,omitempty"`
	Difference      *Decimal  `bson:"difference,omitempty" json:"difference,omitempty"`
	DayStarted      bool      `bson:"day_started" json:"dayStarted"`
	DayClosed       bool      `bson:"day_closed" json:"dayClosed"`
	ClosedSessions  int       `bson:"closed_sessions" json:"closedSessions"`
	FinalRevenue    Decimal   `bson:"final_revenue" json:"finalRevenue"`
	FinalExpenses   Decimal   `bson:"final_expenses" json:"finalExpenses"`
	FinalStaffCosts Decimal   `bson:"final_staff_costs" json:"finalStaffCosts"`
	FinalProfit     Decimal   `bson:"final_profit" json:"finalProfit"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// DrawerCash is the cash the next session starts with: the last counted
// amount once a session of the day has closed, the opening balance before.
func (d DayRecord) DrawerCash() Decimal {
	if d.ClosedSessions > 0 {
		return d.EndCash
	}
	return d.StartCash
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// PaymentType is how a sale was paid. Sales recorded during a session may
// leave it empty; the split is then declared when the session is closed.
type PaymentType string

const (
	PaymentUnassigned PaymentType = ""
	PaymentCash       PaymentType = "cash"
	PaymentCard       PaymentType = "card"
)

// ParsePaymentType normalizes "CASH", "card", "" and friends.
func ParsePaymentType(value string) (PaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return PaymentUnassigned, nil
	case string(PaymentCash):
		return PaymentCash, nil
	case string(PaymentCard):
		return PaymentCard, nil
	default:
		return PaymentUnassigned, Validationf("payment type must be cash or card")
	}
}

// Sale is one line rung up on the till.
type Sale struct {
	ID           string      `bson:"_id" json:"id"`
	SessionID    string      `bson:"session_id" json:"sessionId"`
	MenuItemID   string      `bson:"menu_item_id" json:"menuItemId"`
	MenuItemName string      `bson:"menu_item_name" json:"menuItemName"`
	Quantity     int         `bson:"quantity" json:"amount"`
	Price        Decimal     `bson:"price" json:"price"`
	PaymentType  PaymentType `bson:"payment_type" json:"paymentType"`
	Timestamp    time.Time   `bson:"timestamp" json:"timestamp"`
}

// Total is price times quantity.
func (s Sale) Total() Decimal {
	return s.Price.Mul(DecimalFromInt(int64(s.Quantity)))
}

// Expense is money paid out of the drawer during a session.
type Expense struct {
	ID          string    `bson:"_id" json:"id"`
	SessionID   string    `bson:"session_id" json:"sessionId"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Amount      Decimal   `bson:"amount" json:"amount"`
	Recurring   bool      `bson:"recurring" json:"isRecurring"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// QuickExpense is a pre-configured expense template for one-tap logging.
type QuickExpense struct {
	ID            string  `bson:"_id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	DefaultAmount Decimal `bson:"default_amount" json:"defaultAmount"`
	Category      string  `bson:"category" json:"category"`
	Active        bool    `bson:"active" json:"isActive"`
	Color         string  `bson:"color,omitempty" json:"color,omitempty"`
}

// SessionClosing is stamped on a session when it is reconciled.
type SessionClosing struct {
	StartCash    Decimal `bson:"start_cash" json:"startCash"`
	StaffCosts   Decimal `bson:"staff_costs" json:"staffCosts"`
	ExpectedCash Decimal `bson:"expected_cash" json:"expectedCash"`
	ActualCash   Decimal `bson:"actual_cash" json:"actualCash"`
	Difference   Decimal `bson:"difference" json:"difference"`
	NetProfit    Decimal `bson:"net_profit" json:"netProfit"`
}

// Session is a bounded operating period of the till.
type Session struct {
	ID            string          `bson:"_id" json:"id"`
	Date          string          `bson:"date" json:"date"`
	Name          string          `bson:"name" json:"sessionName"`
	StartTime     time.Time       `bson:"start_time" json:"startTime"`
	EndTime       *time.Time      `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Active        bool            `bson:"active" json:"isActive"`
	Closed        bool            `bson:"closed" json:"isClosed"`
	TotalRevenue  Decimal         `bson:"total_revenue" json:"totalRevenue"`
	TotalExpenses Decimal         `bson:"total_expenses" json:"totalExpenses"`
	CashSales     Decimal         `bson:"cash_sales" json:"cashSales"`
	CardSales     Decimal         `bson:"card_sales" json:"cardSales"`
	ItemsSold     int             `bson:"items_sold" json:"itemsSold"`
	Notes         string          `bson:"notes,omitempty" json:"notes,omitempty"`
	Closing       *SessionClosing `bson:"closing,omitempty" json:"closing,omitempty"`
}

// String is used in log lines and notifications.
func (s Session) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Date)
}

// Package repository declares the persistence port of the till. Services
// depend on the narrow interfaces below; the mongodb and memory packages
// provide the implementations.
package repository

import (
	"context"
	"time"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

// Transactor runs fn atomically. Every repository call made with the ctx
// handed to fn takes part in the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// MenuRepository stores menu items.
type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item models.MenuItem) error
	GetMenuItem(ctx context.Context, id string) (models.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
	AddSoldCount(ctx context.Context, id string, delta int) error
	ResetSoldCounts(ctx context.Context) error
}

// EmployeeRepository stores employees.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee models.Employee) error
	UpdateEmployee(ctx context.Context, employee models.Employee) error
	GetEmployee(ctx context.Context, id string) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// ShiftRepository stores shifts. Time windows are half-open [from, to) on
// the shift start.
type ShiftRepository interface {
	CreateShift(ctx context.Context, shift models.Shift) error
	UpdateShift(ctx context.Context, shift models.Shift) error
	FindOpenShift(ctx context.Context, employeeID string) (models.Shift, error)
	ListOpenShifts(ctx context.Context) ([]models.Shift, error)
	ListShifts(ctx context.Context, from, to time.Time) ([]models.Shift, error)
	DeleteShifts(ctx context.Context, from, to time.Time) (int, error)
}

// InventoryRepository stores inventory items and their change log.
type InventoryRepository interface {
	CreateInventoryItem(ctx context.Context, item models.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item models.InventoryItem) error
	GetInventoryItem(ctx context.Context, id string) (models.InventoryItem, error)
	ListInventoryItems(ctx context.Context) ([]models.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error
	// AdjustStock adds delta to the stock and returns the updated item. When
	// allowNegative is false and the result would drop below zero, the item
	// is left untouched and models.ErrInsufficientStock is returned.
	AdjustStock(ctx context.Context, id string, delta models.Decimal, allowNegative bool) (models.InventoryItem, error)
	AppendInventoryChange(ctx context.Context, change models.InventoryChange) error
	// ListInventoryChanges returns the item's changes, newest first.
	ListInventoryChanges(ctx context.Context, itemID string) ([]models.InventoryChange, error)
}

// SaleRepository stores sales.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale models.Sale) error
	GetSale(ctx context.Context, id string) (models.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	ListSalesBySession(ctx context.Context, sessionID string) ([]models.Sale, error)
	ListSales(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	DeleteSalesBySession(ctx context.Context, sessionID string) error
}

// ExpenseRepository stores expenses.
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, expense models.Expense) error
	GetExpense(ctx context.Context, id string) (models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpensesBySession(ctx context.Context, sessionID string) ([]models.Expense, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	DeleteExpensesBySession(ctx context.Context, sessionID string) error
}

// QuickExpenseRepository stores expense templates.
type QuickExpenseRepository interface {
	CreateQuickExpense(ctx context.Context, qe models.QuickExpense) error
	UpdateQuickExpense(ctx context.Context, qe models.QuickExpense) error
	GetQuickExpense(ctx context.Context, id string) (models.QuickExpense, error)
	ListQuickExpenses(ctx context.Context) ([]models.QuickExpense, error)
	DeleteQuickExpense(ctx context.Context, id string) error
}

// SessionRepository stores till sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	UpdateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	// ListSessionsByDate returns the day's sessions, latest start first.
	ListSessionsByDate(ctx context.Context, date string) ([]models.Session, error)
	FindActiveSession(ctx context.Context, date string) (models.Session, error)
	// DeactivateSessions clears the active flag of every session of the day
	// and reports how many were touched.
	DeactivateSessions(ctx context.Context, date string) (int, error)
	DeleteSession(ctx context.Context, id string) error
}

// DayRecordRepository stores the per-day ledger, keyed by date.
type DayRecordRepository interface {
	GetDayRecord(ctx context.Context, date string) (models.DayRecord, error)
	UpsertDayRecord(ctx context.Context, record models.DayRecord) error
	LatestDayRecordBefore(ctx context.Context, date string) (models.DayRecord, error)
}

// UserRepository stores operator accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// Store is the full persistence port, opened at start-up and closed at
// shutdown.
type Store interface {
	Transactor
	MenuRepository
	EmployeeRepository
	ShiftRepository
	InventoryRepository
	SaleRepository
	ExpenseRepository
	QuickExpenseRepository
	SessionRepository
	DayRecordRepository
	UserRepository
	Close(ctx context.Context) error
}

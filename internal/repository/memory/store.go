// Package memory is an in-process Store used by tests and by single-terminal
// deployments that do not need durable storage.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type state struct {
	menu          map[string]models.MenuItem
	employees     map[string]models.Employee
	shifts        map[string]models.Shift
	inventory     map[string]models.InventoryItem
	changes       []models.InventoryChange
	sales         map[string]models.Sale
	expenses      map[string]models.Expense
	quickExpenses map[string]models.QuickExpense
	sessions      map[string]models.Session
	days          map[string]models.DayRecord
	users         map[string]models.User
}

func newState() state {
	return state{
		menu:          make(map[string]models.MenuItem),
		employees:     make(map[string]models.Employee),
		shifts:        make(map[string]models.Shift),
		inventory:     make(map[string]models.InventoryItem),
		sales:         make(map[string]models.Sale),
		expenses:      make(map[string]models.Expense),
		quickExpenses: make(map[string]models.QuickExpense),
		sessions:      make(map[string]models.Session),
		days:          make(map[string]models.DayRecord),
		users:         make(map[string]models.User),
	}
}

func (s state) clone() state {
	return state{
		menu:          maps.Clone(s.menu),
		employees:     maps.Clone(s.employees),
		shifts:        maps.Clone(s.shifts),
		inventory:     maps.Clone(s.inventory),
		changes:       slices.Clone(s.changes),
		sales:         maps.Clone(s.sales),
		expenses:      maps.Clone(s.expenses),
		quickExpenses: maps.Clone(s.quickExpenses),
		sessions:      maps.Clone(s.sessions),
		days:          maps.Clone(s.days),
		users:         maps.Clone(s.users),
	}
}

// Store keeps every collection in maps guarded by one mutex.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// WithinTx serializes transactions and rolls the whole state back when fn
// fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
}

func sortedValues[T any](m map[string]T, less func(a, b T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, less)
	return out
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// Menu

func (s *Store) CreateMenuItem(_ context.Context, item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.menu[item.ID]; ok {
		return fmt.Errorf("menu item %s: %w", item.ID, models.ErrDuplicate)
	}
	s.data.menu[item.ID] = item
	return nil
}

func (s *Store) UpdateMenuItem(_ context.Context, item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.menu[item.ID]; !ok {
		return notFound("menu item", item.ID)
	}
	s.data.menu[item.ID] = item
	return nil
}

func (s *Store) GetMenuItem(_ context.Context, id string) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.data.menu[id]
	if !ok {
		return models.MenuItem{}, notFound("menu item", id)
	}
	return item, nil
}

func (s *Store) ListMenuItems(context.Context) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.menu, func(a, b models.MenuItem) int {
		return cmp.Compare(a.Name, b.Name)
	}), nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.menu[id]; !ok {
		return notFound("menu item", id)
	}
	delete(s.data.menu, id)
	return nil
}

func (s *Store) AddSoldCount(_ context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.data.menu[id]
	if !ok {
		return notFound("menu item", id)
	}
	item.SoldCount += delta
	s.data.menu[id] = item
	return nil
}

func (s *Store) ResetSoldCounts(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.data.menu {
		item.SoldCount = 0
		s.data.menu[id] = item
	}
	return nil
}

// Employees

func (s *Store) CreateEmployee(_ context.Context, employee models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.employees[employee.ID]; ok {
		return fmt.Errorf("employee %s: %w", employee.ID, models.ErrDuplicate)
	}
	s.data.employees[employee.ID] = employee
	return nil
}

func (s *Store) UpdateEmployee(_ context.Context, employee models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.employees[employee.ID]; !ok {
		return notFound("employee", employee.ID)
	}
	s.data.employees[employee.ID] = employee
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id string) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee, ok := s.data.employees[id]
	if !ok {
		return models.Employee{}, notFound("employee", id)
	}
	return employee, nil
}

func (s *Store) ListEmployees(context.Context) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.employees, func(a, b models.Employee) int {
		return cmp.Compare(a.Name, b.Name)
	}), nil
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.employees[id]; !ok {
		return notFound("employee", id)
	}
	delete(s.data.employees, id)
	return nil
}

// Shifts

func byStart(a, b models.Shift) int {
	return a.Start.Compare(b.Start)
}

func (s *Store) CreateShift(_ context.Context, shift models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.shifts[shift.ID] = shift
	return nil
}

func (s *Store) UpdateShift(_ context.Context, shift models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.shifts[shift.ID]; !ok {
		return notFound("shift", shift.ID)
	}
	s.data.shifts[shift.ID] = shift
	return nil
}

func (s *Store) FindOpenShift(_ context.Context, employeeID string) (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shift := range s.data.shifts {
		if shift.EmployeeID == employeeID && shift.Open() {
			return shift, nil
		}
	}
	return models.Shift{}, fmt.Errorf("open shift for employee %s: %w", employeeID, models.ErrNotFound)
}

func (s *Store) ListOpenShifts(context.Context) ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Shift, 0)
	for _, shift := range s.data.shifts {
		if shift.Open() {
			out = append(out, shift)
		}
	}
	slices.SortFunc(out, byStart)
	return out, nil
}

func (s *Store) ListShifts(_ context.Context, from, to time.Time) ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Shift, 0)
	for _, shift := range s.data.shifts {
		if inWindow(shift.Start, from, to) {
			out = append(out, shift)
		}
	}
	slices.SortFunc(out, byStart)
	return out, nil
}

func (s *Store) DeleteShifts(_ context.Context, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, shift := range s.data.shifts {
		if inWindow(shift.Start, from, to) {
			delete(s.data.shifts, id)
			deleted++
		}
	}
	return deleted, nil
}

// Inventory

func (s *Store) CreateInventoryItem(_ context.Context, item models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.inventory[item.ID]; ok {
		return fmt.Errorf("inventory item %s: %w", item.ID, models.ErrDuplicate)
	}
	s.data.inventory[item.ID] = item
	return nil
}

func (s *Store) UpdateInventoryItem(_ context.Context, item models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.inventory[item.ID]; !ok {
		return notFound("inventory item", item.ID)
	}
	s.data.inventory[item.ID] = item
	return nil
}

func (s *Store) GetInventoryItem(_ context.Context, id string) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.data.inventory[id]
	if !ok {
		return models.InventoryItem{}, notFound("inventory item", id)
	}
	return item, nil
}

func (s *Store) ListInventoryItems(context.Context) ([]models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.inventory, func(a, b models.InventoryItem) int {
		return cmp.Compare(a.Name, b.Name)
	}), nil
}

func (s *Store) DeleteInventoryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.inventory[id]; !ok {
		return notFound("inventory item", id)
	}
	delete(s.data.inventory, id)
	return nil
}

func (s *Store) AdjustStock(_ context.Context, id string, delta models.Decimal, allowNegative bool) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.data.inventory[id]
	if !ok {
		return models.InventoryItem{}, notFound("inventory item", id)
	}
	next := item.Stock.Add(delta)
	if !allowNegative && next.IsNegative() {
		return item, fmt.Errorf("%s has %s %s: %w", item.Name, item.Stock.String(), item.Unit, models.ErrInsufficientStock)
	}
	item.Stock = next
	s.data.inventory[id] = item
	return item, nil
}

func (s *Store) AppendInventoryChange(_ context.Context, change models.InventoryChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.changes = append(s.data.changes, change)
	return nil
}

func (s *Store) ListInventoryChanges(_ context.Context, itemID string) ([]models.InventoryChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InventoryChange, 0)
	for i := len(s.data.changes) - 1; i >= 0; i-- {
		if s.data.changes[i].InventoryItemID == itemID {
			out = append(out, s.data.changes[i])
		}
	}
	return out, nil
}

// Sales

func byTimestamp(a, b models.Sale) int {
	return a.Timestamp.Compare(b.Timestamp)
}

func (s *Store) CreateSale(_ context.Context, sale models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.sales[sale.ID] = sale
	return nil
}

func (s *Store) GetSale(_ context.Context, id string) (models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.data.sales[id]
	if !ok {
		return models.Sale{}, notFound("sale", id)
	}
	return sale, nil
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.sales[id]; !ok {
		return notFound("sale", id)
	}
	delete(s.data.sales, id)
	return nil
}

func (s *Store) ListSalesBySession(_ context.Context, sessionID string) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Sale, 0)
	for _, sale := range s.data.sales {
		if sale.SessionID == sessionID {
			out = append(out, sale)
		}
	}
	slices.SortFunc(out, byTimestamp)
	return out, nil
}

func (s *Store) ListSales(_ context.Context, from, to time.Time) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Sale, 0)
	for _, sale := range s.data.sales {
		if inWindow(sale.Timestamp, from, to) {
			out = append(out, sale)
		}
	}
	slices.SortFunc(out, byTimestamp)
	return out, nil
}

func (s *Store) DeleteSalesBySession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sale := range s.data.sales {
		if sale.SessionID == sessionID {
			delete(s.data.sales, id)
		}
	}
	return nil
}

// Expenses

func expenseByTimestamp(a, b models.Expense) int {
	return a.Timestamp.Compare(b.Timestamp)
}

func (s *Store) CreateExpense(_ context.Context, expense models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.expenses[expense.ID] = expense
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.data.expenses[id]
	if !ok {
		return models.Expense{}, notFound("expense", id)
	}
	return expense, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.expenses[id]; !ok {
		return notFound("expense", id)
	}
	delete(s.data.expenses, id)
	return nil
}

func (s *Store) ListExpensesBySession(_ context.Context, sessionID string) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Expense, 0)
	for _, expense := range s.data.expenses {
		if expense.SessionID == sessionID {
			out = append(out, expense)
		}
	}
	slices.SortFunc(out, expenseByTimestamp)
	return out, nil
}

func (s *Store) ListExpenses(_ context.Context, from, to time.Time) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Expense, 0)
	for _, expense := range s.data.expenses {
		if inWindow(expense.Timestamp, from, to) {
			out = append(out, expense)
		}
	}
	slices.SortFunc(out, expenseByTimestamp)
	return out, nil
}

func (s *Store) DeleteExpensesBySession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, expense := range s.data.expenses {
		if expense.SessionID == sessionID {
			delete(s.data.expenses, id)
		}
	}
	return nil
}

// Quick expenses

func (s *Store) CreateQuickExpense(_ context.Context, qe models.QuickExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.quickExpenses[qe.ID] = qe
	return nil
}

func (s *Store) UpdateQuickExpense(_ context.Context, qe models.QuickExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.quickExpenses[qe.ID]; !ok {
		return notFound("quick expense", qe.ID)
	}
	s.data.quickExpenses[qe.ID] = qe
	return nil
}

func (s *Store) GetQuickExpense(_ context.Context, id string) (models.QuickExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qe, ok := s.data.quickExpenses[id]
	if !ok {
		return models.QuickExpense{}, notFound("quick expense", id)
	}
	return qe, nil
}

func (s *Store) ListQuickExpenses(context.Context) ([]models.QuickExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.quickExpenses, func(a, b models.QuickExpense) int {
		return cmp.Compare(a.Name, b.Name)
	}), nil
}

func (s *Store) DeleteQuickExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.quickExpenses[id]; !ok {
		return notFound("quick expense", id)
	}
	delete(s.data.quickExpenses, id)
	return nil
}

// Sessions

func (s *Store) CreateSession(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.sessions[session.ID] = session
	return nil
}

func (s *Store) UpdateSession(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.sessions[session.ID]; !ok {
		return notFound("session", session.ID)
	}
	s.data.sessions[session.ID] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.data.sessions[id]
	if !ok {
		return models.Session{}, notFound("session", id)
	}
	return session, nil
}

func (s *Store) ListSessionsByDate(_ context.Context, date string) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Session, 0)
	for _, session := range s.data.sessions {
		if session.Date == date {
			out = append(out, session)
		}
	}
	slices.SortFunc(out, func(a, b models.Session) int {
		return b.StartTime.Compare(a.StartTime)
	})
	return out, nil
}

func (s *Store) FindActiveSession(_ context.Context, date string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.data.sessions {
		if session.Date == date && session.Active {
			return session, nil
		}
	}
	return models.Session{}, fmt.Errorf("active session on %s: %w", date, models.ErrNotFound)
}

func (s *Store) DeactivateSessions(_ context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, session := range s.data.sessions {
		if session.Date == date && session.Active {
			session.Active = false
			s.data.sessions[id] = session
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.sessions[id]; !ok {
		return notFound("session", id)
	}
	delete(s.data.sessions, id)
	return nil
}

// Day records

func (s *Store) GetDayRecord(_ context.Context, date string) (models.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.data.days[date]
	if !ok {
		return models.DayRecord{}, notFound("day record", date)
	}
	return record, nil
}

func (s *Store) UpsertDayRecord(_ context.Context, record models.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.days[record.Date] = record
	return nil
}

func (s *Store) LatestDayRecordBefore(_ context.Context, date string) (models.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		latest models.DayRecord
		found  bool
	)
	for key, record := range s.data.days {
		// YYYY-MM-DD keys order lexically.
		if key < date && (!found || key > latest.Date) {
			latest, found = record, true
		}
	}
	if !found {
		return models.DayRecord{}, notFound("day record before", date)
	}
	return latest, nil
}

// Users

func (s *Store) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return fmt.Errorf("username %s: %w", user.Username, models.ErrDuplicate)
		}
	}
	s.data.users[user.ID] = user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.users[user.ID]; !ok {
		return notFound("user", user.ID)
	}
	s.data.users[user.ID] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.data.users[id]
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return user, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.data.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return models.User{}, notFound("user", username)
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.users, func(a, b models.User) int {
		return cmp.Compare(a.Username, b.Username)
	}), nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.users[id]; !ok {
		return notFound("user", id)
	}
	delete(s.data.users, id)
	return nil
}

func (s *Store) CountUsers(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.users), nil
}

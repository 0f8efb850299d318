package sessions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

const defaultExpenseCategory = "other"

// ExpenseRequest pays money out of the drawer. SessionID defaults to today's
// active session.
type ExpenseRequest struct {
	SessionID   string
	Description string
	Category    string
	Amount      models.Decimal
	Recurring   bool
}

// RecordExpense books an expense against an active session.
func (s *Service) RecordExpense(ctx context.Context, req ExpenseRequest) (models.Expense, models.Session, error) {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return models.Expense{}, models.Session{}, models.Validationf("description is required")
	}
	if !req.Amount.IsPositive() {
		return models.Expense{}, models.Session{}, models.Validationf("amount must be greater than zero")
	}
	if strings.TrimSpace(req.Category) == "" {
		req.Category = defaultExpenseCategory
	}

	session, err := s.openSession(ctx, req.SessionID)
	if err != nil {
		return models.Expense{}, models.Session{}, err
	}

	expense := models.Expense{
		ID:          s.newID(),
		SessionID:   session.ID,
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		Recurring:   req.Recurring,
		Timestamp:   s.cal.Now(),
	}

	var updated models.Session
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateExpense(ctx, expense); err != nil {
			return err
		}
		updated, err = s.refreshTotals(ctx, session.ID)
		return err
	})
	if err != nil {
		return models.Expense{}, models.Session{}, fmt.Errorf("record expense: %w", err)
	}

	s.logger.Info("expense recorded",
		zap.String("session_id", session.ID),
		zap.String("description", expense.Description),
		zap.String("amount", expense.Amount.Money()),
	)
	return expense, updated, nil
}

// RecordQuickExpense books an expense from an active template.
func (s *Service) RecordQuickExpense(ctx context.Context, quickExpenseID, sessionID string) (models.Expense, models.Session, error) {
	template, err := s.store.GetQuickExpense(ctx, quickExpenseID)
	if err != nil {
		return models.Expense{}, models.Session{}, fmt.Errorf("load quick expense: %w", err)
	}
	if !template.Active {
		return models.Expense{}, models.Session{}, models.Validationf("quick expense %q is disabled", template.Name)
	}
	return s.RecordExpense(ctx, ExpenseRequest{
		SessionID:   sessionID,
		Description: template.Name,
		Category:    template.Category,
		Amount:      template.DefaultAmount,
	})
}

// DeleteExpense removes an expense of a session that has not been closed.
func (s *Service) DeleteExpense(ctx context.Context, id string) (models.Session, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return models.Session{}, fmt.Errorf("load expense: %w", err)
	}
	session, err := s.GetSession(ctx, expense.SessionID)
	if err != nil {
		return models.Session{}, err
	}
	if session.Closed {
		return models.Session{}, models.ErrSessionClosed
	}

	var updated models.Session
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
			return err
		}
		updated, err = s.refreshTotals(ctx, session.ID)
		return err
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("delete expense: %w", err)
	}
	return updated, nil
}

// ListExpenses returns the expenses of a session, today's active one when
// sessionID is empty.
func (s *Service) ListExpenses(ctx context.Context, sessionID string) ([]models.Expense, error) {
	if sessionID == "" {
		session, err := s.ActiveSession(ctx)
		if err != nil {
			return nil, err
		}
		sessionID = session.ID
	}
	expenses, err := s.store.ListExpensesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// QuickExpenseInput carries the editable fields of a template.
type QuickExpenseInput struct {
	Name          string
	DefaultAmount models.Decimal
	Category      string
	Color         string
}

func (in QuickExpenseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return models.Validationf("name is required")
	}
	if !in.DefaultAmount.IsPositive() {
		return models.Validationf("defaultAmount must be greater than zero")
	}
	return nil
}

// CreateQuickExpense adds an active template.
func (s *Service) CreateQuickExpense(ctx context.Context, in QuickExpenseInput) (models.QuickExpense, error) {
	if err := in.validate(); err != nil {
		return models.QuickExpense{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultExpenseCategory
	}
	qe := models.QuickExpense{
		ID:            s.newID(),
		Name:          strings.TrimSpace(in.Name),
		DefaultAmount: in.DefaultAmount,
		Category:      category,
		Active:        true,
		Color:         in.Color,
	}
	if err := s.store.CreateQuickExpense(ctx, qe); err != nil {
		return models.QuickExpense{}, fmt.Errorf("create quick expense: %w", err)
	}
	return qe, nil
}

// UpdateQuickExpense replaces the editable fields of a template.
func (s *Service) UpdateQuickExpense(ctx context.Context, id string, in QuickExpenseInput) (models.QuickExpense, error) {
	if err := in.validate(); err != nil {
		return models.QuickExpense{}, err
	}
	qe, err := s.store.GetQuickExpense(ctx, id)
	if err != nil {
		return models.QuickExpense{}, fmt.Errorf("load quick expense: %w", err)
	}
	qe.Name = strings.TrimSpace(in.Name)
	qe.DefaultAmount = in.DefaultAmount
	if category := strings.TrimSpace(in.Category); category != "" {
		qe.Category = category
	}
	qe.Color = in.Color
	if err := s.store.UpdateQuickExpense(ctx, qe); err != nil {
		return models.QuickExpense{}, fmt.Errorf("update quick expense: %w", err)
	}
	return qe, nil
}

// ToggleQuickExpense flips the active flag of a template.
func (s *Service) ToggleQuickExpense(ctx context.Context, id string) (models.QuickExpense, error) {
	qe, err := s.store.GetQuickExpense(ctx, id)
	if err != nil {
		return models.QuickExpense{}, fmt.Errorf("load quick expense: %w", err)
	}
	qe.Active = !qe.Active
	if err := s.store.UpdateQuickExpense(ctx, qe); err != nil {
		return models.QuickExpense{}, fmt.Errorf("update quick expense: %w", err)
	}
	return qe, nil
}

// DeleteQuickExpense removes a template. Expenses booked from it stay.
func (s *Service) DeleteQuickExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteQuickExpense(ctx, id); err != nil {
		return fmt.Errorf("delete quick expense: %w", err)
	}
	return nil
}

// ListQuickExpenses returns every template.
func (s *Service) ListQuickExpenses(ctx context.Context) ([]models.QuickExpense, error) {
	list, err := s.store.ListQuickExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quick expenses: %w", err)
	}
	return list, nil
}

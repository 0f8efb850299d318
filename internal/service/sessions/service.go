// Package sessions runs the till's session lifecycle: sales and expenses are
// recorded against an active session, which is later closed with a cash
// count and folded into the day record.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
	"github.com/mamadbah2/tillbook/internal/service/accounting"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

const defaultSessionName = "New Session"

// Store is the slice of the persistence port the session service needs.
type Store interface {
	repository.Transactor
	repository.SessionRepository
	repository.SaleRepository
	repository.ExpenseRepository
	repository.QuickExpenseRepository
	repository.DayRecordRepository
	repository.MenuRepository
	repository.InventoryRepository
	repository.ShiftRepository
}

// Notifier delivers a plain-text message to the manager.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// DayExporter mirrors a closed day somewhere outside the store.
type DayExporter interface {
	ExportDayRecord(ctx context.Context, record models.DayRecord) error
}

// Service implements the session lifecycle.
type Service struct {
	store            Store
	notifier         Notifier
	exporter         DayExporter
	cal              calendar.Calendar
	defaultStartCash models.Decimal
	newID            func() string
	logger           *zap.Logger
}

// NewService wires the session service. notifier and exporter may be nil.
func NewService(store Store, notifier Notifier, exporter DayExporter, cal calendar.Calendar, defaultStartCash models.Decimal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:            store,
		notifier:         notifier,
		exporter:         exporter,
		cal:              cal,
		defaultStartCash: defaultStartCash,
		newID:            uuid.NewString,
		logger:           logger,
	}
}

// StartSession opens a new session for today. Sessions of the day that are
// still active are handed over: they stop taking sales but can be closed.
func (s *Service) StartSession(ctx context.Context, name string) (models.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultSessionName
	}

	now := s.cal.Now()
	session := models.Session{
		ID:        s.newID(),
		Date:      s.cal.DateOf(now),
		Name:      name,
		StartTime: now,
		Active:    true,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		handedOver, err := s.store.DeactivateSessions(ctx, session.Date)
		if err != nil {
			return err
		}
		if handedOver > 0 {
			s.logger.Info("handed over active sessions", zap.String("date", session.Date), zap.Int("count", handedOver))
		}
		return s.store.CreateSession(ctx, session)
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("start session: %w", err)
	}

	s.logger.Info("session started", zap.String("session_id", session.ID), zap.Stringer("session", session))
	return session, nil
}

// ActiveSession returns today's active session.
func (s *Service) ActiveSession(ctx context.Context) (models.Session, error) {
	session, err := s.store.FindActiveSession(ctx, s.cal.Today())
	if errors.Is(err, models.ErrNotFound) {
		return models.Session{}, models.ErrNoActiveSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("find active session: %w", err)
	}
	return session, nil
}

// GetSession loads one session.
func (s *Service) GetSession(ctx context.Context, id string) (models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return models.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns the sessions of date (today when empty), latest first.
func (s *Service) ListSessions(ctx context.Context, date string) ([]models.Session, error) {
	date, err := s.cal.Normalize(date)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessionsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// openSession resolves the session a sale or expense is booked on. An empty
// id means today's active session.
func (s *Service) openSession(ctx context.Context, id string) (models.Session, error) {
	if id == "" {
		return s.ActiveSession(ctx)
	}
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return models.Session{}, err
	}
	if session.Closed {
		return models.Session{}, models.ErrSessionClosed
	}
	if !session.Active {
		return models.Session{}, models.ErrSessionInactive
	}
	return session, nil
}

// refreshTotals recomputes the session's running totals from its sales and
// expenses and stores them.
func (s *Service) refreshTotals(ctx context.Context, sessionID string) (models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}
	sales, err := s.store.ListSalesBySession(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}
	expenses, err := s.store.ListExpensesBySession(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}

	totals := accounting.SessionTotals(sales, expenses)
	session.TotalRevenue = totals.Revenue
	session.TotalExpenses = totals.Expenses
	session.CashSales = totals.Cash
	session.CardSales = totals.Card
	session.ItemsSold = totals.ItemsSold

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *Service) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Warn("notification failed", zap.Error(err))
	}
}

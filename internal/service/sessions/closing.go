package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/accounting"
)

// CloseRequest is the operator's declaration at the end of a session.
type CloseRequest struct {
	CashRevenue *models.Decimal
	CardRevenue *models.Decimal
	ActualCash  *models.Decimal
	Notes       string
}

func (r CloseRequest) validate() error {
	if r.ActualCash == nil {
		return models.Validationf("actualCash is required")
	}
	if r.CashRevenue == nil || r.CardRevenue == nil {
		return models.Validationf("cashRevenue and cardRevenue are required")
	}
	if r.ActualCash.IsNegative() {
		return models.Validationf("actualCash must not be negative")
	}
	return nil
}

// CloseResult is the closed session together with the updated day record.
type CloseResult struct {
	Session   models.Session   `json:"session"`
	DayRecord models.DayRecord `json:"dayRecord"`
	Margin    models.Decimal   `json:"margin"`
}

// CloseSession reconciles a session against the counted cash. The declared
// split must match the recorded revenue; nothing is written otherwise.
func (s *Service) CloseSession(ctx context.Context, id string, req CloseRequest) (CloseResult, error) {
	if err := req.validate(); err != nil {
		return CloseResult{}, err
	}

	var result CloseResult
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		session, err := s.store.GetSession(ctx, id)
		if err != nil {
			return err
		}
		if session.Closed {
			return models.ErrSessionClosed
		}

		sales, err := s.store.ListSalesBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		expenses, err := s.store.ListExpensesBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		totals := accounting.SessionTotals(sales, expenses)

		cash, card := *req.CashRevenue, *req.CardRevenue
		if err := accounting.ValidateSplit(totals.Revenue, cash, card); err != nil {
			return err
		}

		day, err := s.dayRecord(ctx, session.Date)
		if err != nil {
			return err
		}

		now := s.cal.Now()
		shifts, err := s.store.ListShifts(ctx, session.StartTime, now.Add(1))
		if err != nil {
			return err
		}
		staffCosts := accounting.StaffCosts(shifts, session.StartTime, now)

		startCash := day.DrawerCash()
		rec := accounting.Reconcile(accounting.ReconciliationInput{
			StartCash:   startCash,
			CashRevenue: cash,
			CardRevenue: card,
			Expenses:    totals.Expenses,
			StaffCosts:  staffCosts,
			ActualCash:  *req.ActualCash,
		})

		session.Active = false
		session.Closed = true
		session.EndTime = &now
		session.TotalRevenue = totals.Revenue
		session.TotalExpenses = totals.Expenses
		session.CashSales = cash
		session.CardSales = card
		session.ItemsSold = totals.ItemsSold
		session.Notes = strings.TrimSpace(req.Notes)
		session.Closing = &models.SessionClosing{
			StartCash:    startCash,
			StaffCosts:   staffCosts,
			ExpectedCash: rec.ExpectedCash,
			ActualCash:   *req.ActualCash,
			Difference:   rec.Difference,
			NetProfit:    rec.NetProfit,
		}
		if err := s.store.UpdateSession(ctx, session); err != nil {
			return err
		}

		day.DayStarted = true
		day.SalesCash = day.SalesCash.Add(cash)
		day.SalesCard = day.SalesCard.Add(card)
		day.Expenses = day.Expenses.Add(totals.Expenses)
		day.EndCash = *req.ActualCash
		day.ClosedSessions++
		day.FinalRevenue = day.FinalRevenue.Add(rec.Revenue)
		day.FinalExpenses = day.FinalExpenses.Add(totals.Expenses)
		day.FinalStaffCosts = day.FinalStaffCosts.Add(staffCosts)
		day.FinalProfit = day.FinalProfit.Add(rec.NetProfit)
		day.UpdatedAt = now
		if err := s.store.UpsertDayRecord(ctx, day); err != nil {
			return err
		}

		result = CloseResult{Session: session, DayRecord: day, Margin: rec.Margin}
		return nil
	})
	if err != nil {
		return CloseResult{}, fmt.Errorf("close session: %w", err)
	}

	closing := result.Session.Closing
	s.logger.Info("session closed",
		zap.String("session_id", result.Session.ID),
		zap.String("expected_cash", closing.ExpectedCash.Money()),
		zap.String("actual_cash", closing.ActualCash.Money()),
		zap.String("difference", closing.Difference.Money()),
	)
	s.notify(ctx, FormatClosing(result.Session))
	return result, nil
}

// FormatClosing renders the closing summary sent to the manager.
func FormatClosing(session models.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session closed: %s\n", session)
	fmt.Fprintf(&b, "Revenue: %s (cash %s, card %s)\n", session.TotalRevenue.Money(), session.CashSales.Money(), session.CardSales.Money())
	fmt.Fprintf(&b, "Expenses: %s\n", session.TotalExpenses.Money())
	if c := session.Closing; c != nil {
		fmt.Fprintf(&b, "Staff: %s\n", c.StaffCosts.Money())
		fmt.Fprintf(&b, "Cash expected %s, counted %s, difference %s\n", c.ExpectedCash.Money(), c.ActualCash.Money(), c.Difference.Money())
		fmt.Fprintf(&b, "Net profit: %s", c.NetProfit.Money())
	}
	return b.String()
}

// dayRecord returns the stored record of date or a fresh one seeded with the
// cash carried over from the latest earlier day.
func (s *Service) dayRecord(ctx context.Context, date string) (models.DayRecord, error) {
	record, err := s.store.GetDayRecord(ctx, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.DayRecord{}, err
	}

	carried := s.defaultStartCash
	previous, err := s.store.LatestDayRecordBefore(ctx, date)
	switch {
	case err == nil:
		carried = previous.EndCash
	case !errors.Is(err, models.ErrNotFound):
		return models.DayRecord{}, err
	}
	return models.DayRecord{Date: date, StartCash: carried, EndCash: carried}, nil
}

// DayRecord returns the ledger of date (today when empty). Days without a
// stored record come back seeded with the carried cash.
func (s *Service) DayRecord(ctx context.Context, date string) (models.DayRecord, error) {
	date, err := s.cal.Normalize(date)
	if err != nil {
		return models.DayRecord{}, err
	}
	record, err := s.dayRecord(ctx, date)
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("load day record: %w", err)
	}
	return record, nil
}

// SetStartCash sets the opening balance of date and marks the day started.
func (s *Service) SetStartCash(ctx context.Context, date string, amount models.Decimal) (models.DayRecord, error) {
	date, err := s.cal.Normalize(date)
	if err != nil {
		return models.DayRecord{}, err
	}
	if amount.IsNegative() {
		return models.DayRecord{}, models.Validationf("startCash must not be negative")
	}

	var record models.DayRecord
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.dayRecord(ctx, date)
		if err != nil {
			return err
		}
		record = current
		record.StartCash = amount
		if record.ClosedSessions == 0 {
			record.EndCash = amount
		}
		record.DayStarted = true
		record.UpdatedAt = s.cal.Now()
		return s.store.UpsertDayRecord(ctx, record)
	})
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("set start cash: %w", err)
	}

	s.logger.Info("start cash set", zap.String("date", date), zap.String("amount", amount.Money()))
	return record, nil
}

// DayClosingRequest is the end-of-day cash count. StartCash overrides the
// stored opening balance when set.
type DayClosingRequest struct {
	StartCash  *models.Decimal
	ActualCash *models.Decimal
}

// SaveDayClosing recomputes the whole calendar day from its sales, expenses
// and shifts and stores it as the day's record. Saving again overwrites the
// same record. Sales of sessions that are still open and have no payment
// type count as cash.
func (s *Service) SaveDayClosing(ctx context.Context, date string, req DayClosingRequest) (models.DayRecord, error) {
	if req.ActualCash == nil {
		return models.DayRecord{}, models.Validationf("actualCash is required")
	}
	if req.ActualCash.IsNegative() || (req.StartCash != nil && req.StartCash.IsNegative()) {
		return models.DayRecord{}, models.Validationf("cash amounts must not be negative")
	}
	date, err := s.cal.Normalize(date)
	if err != nil {
		return models.DayRecord{}, err
	}
	from, to, err := s.cal.Day(date)
	if err != nil {
		return models.DayRecord{}, err
	}

	var record models.DayRecord
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.dayRecord(ctx, date)
		if err != nil {
			return err
		}
		record = current
		sales, err := s.store.ListSales(ctx, from, to)
		if err != nil {
			return err
		}
		sessions, err := s.store.ListSessionsByDate(ctx, date)
		if err != nil {
			return err
		}
		expenses, err := s.store.ListExpenses(ctx, from, to)
		if err != nil {
			return err
		}
		shifts, err := s.store.ListShifts(ctx, from, to)
		if err != nil {
			return err
		}

		split := accounting.DaySales(sales, sessions)
		totals := accounting.SessionTotals(nil, expenses)
		staffCosts := accounting.StaffCosts(shifts, from, to)

		if req.StartCash != nil {
			record.StartCash = *req.StartCash
		}
		cash := split.Cash.Add(split.Unassigned)
		expected := record.StartCash.Add(cash).Sub(totals.Expenses)
		difference := req.ActualCash.Sub(expected)

		record.SalesCash = cash
		record.SalesCard = split.Card
		record.Expenses = totals.Expenses
		record.EndCash = *req.ActualCash
		record.ActualCash = models.DecimalPtr(*req.ActualCash)
		record.Difference = &difference
		record.DayStarted = true
		record.DayClosed = true
		record.FinalRevenue = split.Total
		record.FinalExpenses = totals.Expenses
		record.FinalStaffCosts = staffCosts
		record.FinalProfit = split.Total.Sub(totals.Expenses).Sub(staffCosts)
		record.UpdatedAt = s.cal.Now()
		return s.store.UpsertDayRecord(ctx, record)
	})
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("save day closing: %w", err)
	}

	s.logger.Info("day closed",
		zap.String("date", date),
		zap.String("end_cash", record.EndCash.Money()),
		zap.String("difference", record.Difference.Money()),
	)

	if s.exporter != nil {
		if err := s.exporter.ExportDayRecord(ctx, record); err != nil {
			s.logger.Warn("day record export failed", zap.String("date", date), zap.Error(err))
		}
	}
	return record, nil
}

// DeleteSessionsForDate wipes the sessions of date with their sales and
// expenses, the shifts started that day and every sold counter, and resets
// the day record to its opening balance. It reports how many sessions went.
func (s *Service) DeleteSessionsForDate(ctx context.Context, date string) (int, error) {
	date, err := s.cal.Normalize(date)
	if err != nil {
		return 0, err
	}
	from, to, err := s.cal.Day(date)
	if err != nil {
		return 0, err
	}

	var deleted int
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		sessions, err := s.store.ListSessionsByDate(ctx, date)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if err := s.store.DeleteSalesBySession(ctx, session.ID); err != nil {
				return err
			}
			if err := s.store.DeleteExpensesBySession(ctx, session.ID); err != nil {
				return err
			}
			if err := s.store.DeleteSession(ctx, session.ID); err != nil {
				return err
			}
			deleted++
		}
		if _, err := s.store.DeleteShifts(ctx, from, to); err != nil {
			return err
		}
		if err := s.store.ResetSoldCounts(ctx); err != nil {
			return err
		}

		record, err := s.store.GetDayRecord(ctx, date)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.store.UpsertDayRecord(ctx, models.DayRecord{
			Date:       date,
			StartCash:  record.StartCash,
			EndCash:    record.StartCash,
			DayStarted: record.DayStarted,
			UpdatedAt:  s.cal.Now(),
		})
	})
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}

	s.logger.Warn("sessions deleted", zap.String("date", date), zap.Int("count", deleted))
	return deleted, nil
}

package sessions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

// SaleRequest rings up a menu item. SessionID defaults to today's active
// session and PaymentType may stay unassigned until the session closes.
type SaleRequest struct {
	SessionID   string
	MenuItemID  string
	Quantity    int
	PaymentType models.PaymentType
}

// SaleResult is the recorded sale, the refreshed session and any stock
// warnings raised by the recipe decrement.
type SaleResult struct {
	Sale     models.Sale    `json:"sale"`
	Session  models.Session `json:"session"`
	Warnings []string       `json:"warnings,omitempty"`
}

// RecordSale books a sale, bumps the sold counter and takes the recipe's
// ingredients out of stock in one transaction. Stock may go negative here;
// the caller gets a warning for every ingredient that ran out.
func (s *Service) RecordSale(ctx context.Context, req SaleRequest) (SaleResult, error) {
	if req.MenuItemID == "" {
		return SaleResult{}, models.Validationf("menuItemId is required")
	}
	if req.Quantity <= 0 {
		return SaleResult{}, models.Validationf("amount must be greater than zero")
	}
	switch req.PaymentType {
	case models.PaymentUnassigned, models.PaymentCash, models.PaymentCard:
	default:
		return SaleResult{}, models.Validationf("payment type must be cash or card")
	}

	session, err := s.openSession(ctx, req.SessionID)
	if err != nil {
		return SaleResult{}, err
	}
	item, err := s.store.GetMenuItem(ctx, req.MenuItemID)
	if err != nil {
		return SaleResult{}, fmt.Errorf("load menu item: %w", err)
	}

	now := s.cal.Now()
	sale := models.Sale{
		ID:           s.newID(),
		SessionID:    session.ID,
		MenuItemID:   item.ID,
		MenuItemName: item.Name,
		Quantity:     req.Quantity,
		Price:        item.Price,
		PaymentType:  req.PaymentType,
		Timestamp:    now,
	}

	var result SaleResult
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateSale(ctx, sale); err != nil {
			return err
		}
		if err := s.store.AddSoldCount(ctx, item.ID, sale.Quantity); err != nil {
			return err
		}

		warnings, err := s.takeIngredients(ctx, item, sale)
		if err != nil {
			return err
		}

		updated, err := s.refreshTotals(ctx, session.ID)
		if err != nil {
			return err
		}
		result = SaleResult{Sale: sale, Session: updated, Warnings: warnings}
		return nil
	})
	if err != nil {
		return SaleResult{}, fmt.Errorf("record sale: %w", err)
	}

	s.logger.Info("sale recorded",
		zap.String("session_id", session.ID),
		zap.String("menu_item", item.Name),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total().Money()),
	)
	return result, nil
}

func (s *Service) takeIngredients(ctx context.Context, item models.MenuItem, sale models.Sale) ([]string, error) {
	var warnings []string
	quantity := models.DecimalFromInt(int64(sale.Quantity))

	for _, ingredient := range item.Ingredients {
		used := ingredient.Quantity.Mul(quantity)
		stocked, err := s.store.AdjustStock(ctx, ingredient.InventoryItemID, used.Neg(), true)
		if errors.Is(err, models.ErrNotFound) {
			warnings = append(warnings, fmt.Sprintf("ingredient %s is no longer stocked", ingredient.InventoryItemID))
			continue
		}
		if err != nil {
			return nil, err
		}

		change := models.InventoryChange{
			ID:              s.newID(),
			InventoryItemID: stocked.ID,
			Change:          used.Neg(),
			Reason:          models.ReasonSale,
			Notes:           fmt.Sprintf("%dx %s", sale.Quantity, item.Name),
			Timestamp:       sale.Timestamp,
		}
		if err := s.store.AppendInventoryChange(ctx, change); err != nil {
			return nil, err
		}

		if !stocked.Stock.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("%s is out of stock (%s %s)", stocked.Name, stocked.Stock.String(), stocked.Unit))
		}
	}
	return warnings, nil
}

// VoidSale removes a sale of a session that has not been closed, gives the
// ingredients back and recomputes the session totals.
func (s *Service) VoidSale(ctx context.Context, id string) (models.Session, error) {
	sale, err := s.store.GetSale(ctx, id)
	if err != nil {
		return models.Session{}, fmt.Errorf("load sale: %w", err)
	}
	session, err := s.GetSession(ctx, sale.SessionID)
	if err != nil {
		return models.Session{}, err
	}
	if session.Closed {
		return models.Session{}, models.ErrSessionClosed
	}

	var updated models.Session
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteSale(ctx, sale.ID); err != nil {
			return err
		}
		if err := s.restoreIngredients(ctx, sale); err != nil {
			return err
		}
		updated, err = s.refreshTotals(ctx, session.ID)
		return err
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("void sale: %w", err)
	}

	s.logger.Info("sale voided", zap.String("sale_id", sale.ID), zap.String("session_id", session.ID))
	return updated, nil
}

func (s *Service) restoreIngredients(ctx context.Context, sale models.Sale) error {
	item, err := s.store.GetMenuItem(ctx, sale.MenuItemID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.store.AddSoldCount(ctx, item.ID, -sale.Quantity); err != nil {
		return err
	}

	quantity := models.DecimalFromInt(int64(sale.Quantity))
	for _, ingredient := range item.Ingredients {
		back := ingredient.Quantity.Mul(quantity)
		if _, err := s.store.AdjustStock(ctx, ingredient.InventoryItemID, back, true); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return err
		}
		change := models.InventoryChange{
			ID:              s.newID(),
			InventoryItemID: ingredient.InventoryItemID,
			Change:          back,
			Reason:          models.ReasonAdjustment,
			Notes:           "voided sale " + sale.ID,
			Timestamp:       s.cal.Now(),
		}
		if err := s.store.AppendInventoryChange(ctx, change); err != nil {
			return err
		}
	}
	return nil
}

// ListSales returns the sales of a session, today's active one when
// sessionID is empty.
func (s *Service) ListSales(ctx context.Context, sessionID string) ([]models.Sale, error) {
	if sessionID == "" {
		session, err := s.ActiveSession(ctx)
		if err != nil {
			return nil, err
		}
		sessionID = session.ID
	}
	sales, err := s.store.ListSalesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

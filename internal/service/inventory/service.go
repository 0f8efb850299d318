// Package inventory tracks stock levels. Every stock movement is logged as
// an InventoryChange.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
	"github.com/mamadbah2/tillbook/internal/service/accounting"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

// Store is what the inventory service persists to.
type Store interface {
	repository.Transactor
	repository.InventoryRepository
}

// Service manages inventory items and their stock.
type Service struct {
	store  Store
	cal    calendar.Calendar
	newID  func() string
	logger *zap.Logger
}

// NewService wires the inventory service.
func NewService(store Store, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cal: cal, newID: uuid.NewString, logger: logger}
}

// ItemInput carries the editable fields of an inventory item. Stock is only
// read on create; later changes go through deliveries, consumption and
// adjustments.
type ItemInput struct {
	Name          string
	Unit          string
	Stock         models.Decimal
	MinStock      models.Decimal
	PurchasePrice models.Decimal
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return models.Validationf("name is required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return models.Validationf("unit is required")
	}
	if in.Stock.IsNegative() || in.MinStock.IsNegative() || in.PurchasePrice.IsNegative() {
		return models.Validationf("stock, minStock and purchasePrice must not be negative")
	}
	return nil
}

func view(item models.InventoryItem) models.InventoryView {
	return models.InventoryView{InventoryItem: item, Status: accounting.StockStatus(item.Stock, item.MinStock)}
}

// CreateItem adds an item with its opening stock.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (models.InventoryView, error) {
	if err := in.validate(); err != nil {
		return models.InventoryView{}, err
	}
	item := models.InventoryItem{
		ID:            s.newID(),
		Name:          strings.TrimSpace(in.Name),
		Unit:          strings.TrimSpace(in.Unit),
		Stock:         in.Stock,
		MinStock:      in.MinStock,
		PurchasePrice: in.PurchasePrice,
		CreatedAt:     s.cal.Now(),
	}
	if err := s.store.CreateInventoryItem(ctx, item); err != nil {
		return models.InventoryView{}, fmt.Errorf("create inventory item: %w", err)
	}
	return view(item), nil
}

// UpdateItem replaces name, unit, minimum stock and purchase price.
func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (models.InventoryView, error) {
	if err := in.validate(); err != nil {
		return models.InventoryView{}, err
	}
	item, err := s.store.GetInventoryItem(ctx, id)
	if err != nil {
		return models.InventoryView{}, fmt.Errorf("get inventory item: %w", err)
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Unit = strings.TrimSpace(in.Unit)
	item.MinStock = in.MinStock
	item.PurchasePrice = in.PurchasePrice
	if err := s.store.UpdateInventoryItem(ctx, item); err != nil {
		return models.InventoryView{}, fmt.Errorf("update inventory item: %w", err)
	}
	return view(item), nil
}

// GetItem loads one item with its status.
func (s *Service) GetItem(ctx context.Context, id string) (models.InventoryView, error) {
	item, err := s.store.GetInventoryItem(ctx, id)
	if err != nil {
		return models.InventoryView{}, fmt.Errorf("get inventory item: %w", err)
	}
	return view(item), nil
}

// DeleteItem removes an item. Its change log stays.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteInventoryItem(ctx, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// List returns every item with its status.
func (s *Service) List(ctx context.Context) ([]models.InventoryView, error) {
	items, err := s.store.ListInventoryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	out := make([]models.InventoryView, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out, nil
}

// LowStock returns the items that are empty or at or below their minimum.
func (s *Service) LowStock(ctx context.Context) ([]models.InventoryView, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.InventoryView, 0)
	for _, item := range all {
		if item.Status != models.StockOK {
			out = append(out, item)
		}
	}
	return out, nil
}

// Deliver books incoming goods.
func (s *Service) Deliver(ctx context.Context, id string, amount models.Decimal, notes string) (models.InventoryView, error) {
	if !amount.IsPositive() {
		return models.InventoryView{}, models.Validationf("amount must be greater than zero")
	}
	return s.move(ctx, id, amount, models.ReasonDelivery, notes, false)
}

// Consume books stock used outside of sales. Taking more than is stocked is
// rejected and leaves the stock as it was.
func (s *Service) Consume(ctx context.Context, id string, amount models.Decimal, notes string) (models.InventoryView, error) {
	if !amount.IsPositive() {
		return models.InventoryView{}, models.Validationf("amount must be greater than zero")
	}
	return s.move(ctx, id, amount.Neg(), models.ReasonConsumption, notes, false)
}

// Adjust sets the stock to a counted value and logs the difference.
func (s *Service) Adjust(ctx context.Context, id string, counted models.Decimal, notes string) (models.InventoryView, error) {
	if counted.IsNegative() {
		return models.InventoryView{}, models.Validationf("stock must not be negative")
	}

	var out models.InventoryView
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		item, err := s.store.GetInventoryItem(ctx, id)
		if err != nil {
			return err
		}
		delta := counted.Sub(item.Stock)
		if delta.IsZero() {
			out = view(item)
			return nil
		}
		moved, err := s.apply(ctx, id, delta, models.ReasonAdjustment, notes, true)
		out = moved
		return err
	})
	if err != nil {
		return models.InventoryView{}, fmt.Errorf("adjust stock: %w", err)
	}
	return out, nil
}

func (s *Service) move(ctx context.Context, id string, delta models.Decimal, reason models.ChangeReason, notes string, allowNegative bool) (models.InventoryView, error) {
	var out models.InventoryView
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		moved, err := s.apply(ctx, id, delta, reason, notes, allowNegative)
		out = moved
		return err
	})
	if err != nil {
		return models.InventoryView{}, fmt.Errorf("%s: %w", reason, err)
	}
	return out, nil
}

func (s *Service) apply(ctx context.Context, id string, delta models.Decimal, reason models.ChangeReason, notes string, allowNegative bool) (models.InventoryView, error) {
	item, err := s.store.AdjustStock(ctx, id, delta, allowNegative)
	if err != nil {
		return models.InventoryView{}, err
	}
	change := models.InventoryChange{
		ID:              s.newID(),
		InventoryItemID: item.ID,
		Change:          delta,
		Reason:          reason,
		Notes:           strings.TrimSpace(notes),
		Timestamp:       s.cal.Now(),
	}
	if err := s.store.AppendInventoryChange(ctx, change); err != nil {
		return models.InventoryView{}, err
	}

	s.logger.Info("stock moved",
		zap.String("item", item.Name),
		zap.String("reason", string(reason)),
		zap.String("change", delta.String()),
		zap.String("stock", item.Stock.String()),
	)
	return view(item), nil
}

// Changes returns the change log of an item, newest first.
func (s *Service) Changes(ctx context.Context, id string) ([]models.InventoryChange, error) {
	if _, err := s.store.GetInventoryItem(ctx, id); err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	changes, err := s.store.ListInventoryChanges(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list inventory changes: %w", err)
	}
	return changes, nil
}

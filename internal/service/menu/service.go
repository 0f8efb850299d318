// Package menu manages the items sold on the till and their recipes.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

// Store is what the menu service persists to. Inventory is read to check
// recipe lines.
type Store interface {
	repository.MenuRepository
	GetInventoryItem(ctx context.Context, id string) (models.InventoryItem, error)
}

// Service manages menu items.
type Service struct {
	store  Store
	cal    calendar.Calendar
	newID  func() string
	logger *zap.Logger
}

// NewService wires the menu service.
func NewService(store Store, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cal: cal, newID: uuid.NewString, logger: logger}
}

// ItemInput carries the editable fields of a menu item.
type ItemInput struct {
	Name        string
	Category    string
	Price       models.Decimal
	Ingredients []models.Ingredient
}

func (s *Service) validate(ctx context.Context, in ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return models.Validationf("name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return models.Validationf("category is required")
	}
	if !in.Price.IsPositive() {
		return models.Validationf("price must be greater than zero")
	}

	seen := make(map[string]bool, len(in.Ingredients))
	for _, ingredient := range in.Ingredients {
		if !ingredient.Quantity.IsPositive() {
			return models.Validationf("ingredient quantity must be greater than zero")
		}
		if seen[ingredient.InventoryItemID] {
			return models.Validationf("ingredient %s is listed twice", ingredient.InventoryItemID)
		}
		seen[ingredient.InventoryItemID] = true

		_, err := s.store.GetInventoryItem(ctx, ingredient.InventoryItemID)
		if errors.Is(err, models.ErrNotFound) {
			return models.Validationf("ingredient %s is not an inventory item", ingredient.InventoryItemID)
		}
		if err != nil {
			return fmt.Errorf("check ingredient: %w", err)
		}
	}
	return nil
}

// CreateItem adds a menu item.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (models.MenuItem, error) {
	if err := s.validate(ctx, in); err != nil {
		return models.MenuItem{}, err
	}
	now := s.cal.Now()
	item := models.MenuItem{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Ingredients: ingredientsOrEmpty(in.Ingredients),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return models.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	s.logger.Info("menu item created", zap.String("menu_item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// UpdateItem replaces the editable fields. Past sales keep their captured
// price.
func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (models.MenuItem, error) {
	if err := s.validate(ctx, in); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return models.MenuItem{}, err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Category = strings.TrimSpace(in.Category)
	item.Price = in.Price
	item.Ingredients = ingredientsOrEmpty(in.Ingredients)
	item.UpdatedAt = s.cal.Now()
	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return models.MenuItem{}, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

// GetItem loads one menu item.
func (s *Service) GetItem(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

// ListItems returns the menu by name.
func (s *Service) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// DeleteItem removes a menu item. Recorded sales keep its name.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

// ResetSoldCounts zeroes every sold counter.
func (s *Service) ResetSoldCounts(ctx context.Context) error {
	if err := s.store.ResetSoldCounts(ctx); err != nil {
		return fmt.Errorf("reset sold counts: %w", err)
	}
	s.logger.Info("sold counters reset")
	return nil
}

func ingredientsOrEmpty(in []models.Ingredient) []models.Ingredient {
	if in == nil {
		return []models.Ingredient{}
	}
	return in
}

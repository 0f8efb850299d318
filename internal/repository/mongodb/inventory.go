package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func (r *Repository) CreateInventoryItem(ctx context.Context, item models.InventoryItem) error {
	return insert(ctx, r.coll(inventoryCollection), item, "inventory item "+item.ID)
}

func (r *Repository) UpdateInventoryItem(ctx context.Context, item models.InventoryItem) error {
	return replace(ctx, r.coll(inventoryCollection), item.ID, item, "inventory item "+item.ID)
}

func (r *Repository) GetInventoryItem(ctx context.Context, id string) (models.InventoryItem, error) {
	return findOne[models.InventoryItem](ctx, r.coll(inventoryCollection), bson.M{"_id": id}, "inventory item "+id)
}

func (r *Repository) ListInventoryItems(ctx context.Context) ([]models.InventoryItem, error) {
	return findAll[models.InventoryItem](ctx, r.coll(inventoryCollection), bson.M{}, byName)
}

func (r *Repository) DeleteInventoryItem(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(inventoryCollection), id, "inventory item "+id)
}

// AdjustStock applies $inc with a guard on the current stock, so the check
// and the write happen in one server-side operation.
func (r *Repository) AdjustStock(ctx context.Context, id string, delta models.Decimal, allowNegative bool) (models.InventoryItem, error) {
	filter := bson.M{"_id": id}
	if !allowNegative && delta.IsNegative() {
		filter["stock"] = bson.M{"$gte": delta.Neg()}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.InventoryItem
	err := r.coll(inventoryCollection).
		FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"stock": delta}}, opts).
		Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := r.GetInventoryItem(ctx, id)
		if getErr != nil {
			return models.InventoryItem{}, getErr
		}
		r.logger.Debug("stock guard rejected update", zap.String("item", id), zap.String("delta", delta.String()))
		return current, fmt.Errorf("%s has %s %s: %w", current.Name, current.Stock.String(), current.Unit, models.ErrInsufficientStock)
	}
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("adjust stock of %s: %w", id, err)
	}
	return item, nil
}

func (r *Repository) AppendInventoryChange(ctx context.Context, change models.InventoryChange) error {
	return insert(ctx, r.coll(changeCollection), change, "inventory change "+change.ID)
}

func (r *Repository) ListInventoryChanges(ctx context.Context, itemID string) ([]models.InventoryChange, error) {
	return findAll[models.InventoryChange](ctx, r.coll(changeCollection), bson.M{"inventory_item_id": itemID}, byTimestampDesc)
}

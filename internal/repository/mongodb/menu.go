package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func (r *Repository) CreateMenuItem(ctx context.Context, item models.MenuItem) error {
	return insert(ctx, r.coll(menuCollection), item, "menu item "+item.ID)
}

func (r *Repository) UpdateMenuItem(ctx context.Context, item models.MenuItem) error {
	return replace(ctx, r.coll(menuCollection), item.ID, item, "menu item "+item.ID)
}

func (r *Repository) GetMenuItem(ctx context.Context, id string) (models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, r.coll(menuCollection), bson.M{"_id": id}, "menu item "+id)
}

func (r *Repository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, r.coll(menuCollection), bson.M{}, byName)
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(menuCollection), id, "menu item "+id)
}

// AddSoldCount increments the counter server-side so concurrent sales do not
// overwrite each other.
func (r *Repository) AddSoldCount(ctx context.Context, id string, delta int) error {
	res, err := r.coll(menuCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"sold_count": delta}})
	if err != nil {
		return fmt.Errorf("increment sold count of %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *Repository) ResetSoldCounts(ctx context.Context) error {
	if _, err := r.coll(menuCollection).UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"sold_count": 0}}); err != nil {
		return fmt.Errorf("reset sold counts: %w", err)
	}
	return nil
}

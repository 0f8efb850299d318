package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func (r *Repository) CreateUser(ctx context.Context, user models.User) error {
	return insert(ctx, r.coll(userCollection), user, "username "+user.Username)
}

func (r *Repository) UpdateUser(ctx context.Context, user models.User) error {
	return replace(ctx, r.coll(userCollection), user.ID, user, "user "+user.ID)
}

func (r *Repository) GetUser(ctx context.Context, id string) (models.User, error) {
	return findOne[models.User](ctx, r.coll(userCollection), bson.M{"_id": id}, "user "+id)
}

// FindUserByUsername expects usernames to be stored lower-cased.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return findOne[models.User](ctx, r.coll(userCollection), bson.M{"username": strings.ToLower(username)}, "user "+username)
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	return findAll[models.User](ctx, r.coll(userCollection), bson.M{}, opts)
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(userCollection), id, "user "+id)
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	n, err := r.coll(userCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}

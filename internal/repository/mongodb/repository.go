package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/config"
	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
)

const (
	menuCollection         = "menu_items"
	employeeCollection     = "employees"
	shiftCollection        = "shifts"
	inventoryCollection    = "inventory_items"
	changeCollection       = "inventory_changes"
	saleCollection         = "sales"
	expenseCollection      = "expenses"
	quickExpenseCollection = "quick_expenses"
	sessionCollection      = "sessions"
	dayRecordCollection    = "day_records"
	userCollection         = "users"
)

var _ repository.Store = (*Repository)(nil)

// Repository implements repository.Store on MongoDB.
type Repository struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
	logger       *zap.Logger
}

// NewRepository connects, pings and makes sure the indexes exist.
func NewRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &Repository{
		client:       client,
		db:           client.Database(cfg.DBName),
		transactions: cfg.Transactions,
		logger:       logger,
	}

	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	logger.Info("mongodb repository ready", zap.String("db", cfg.DBName), zap.Bool("transactions", cfg.Transactions))
	return r, nil
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		userCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		sessionCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "active", Value: 1}}},
		},
		saleCollection: {
			{Keys: bson.D{{Key: "session_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
		expenseCollection: {
			{Keys: bson.D{{Key: "session_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
		shiftCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "end", Value: 1}}},
			{Keys: bson.D{{Key: "start", Value: 1}}},
		},
		changeCollection: {
			{Keys: bson.D{{Key: "inventory_item_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for name, specs := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// WithinTx runs fn inside a multi-document transaction. Standalone servers
// do not support transactions; with MONGODB_TRANSACTIONS=false fn runs as is.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.transactions {
		return fn(ctx)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongodb session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *Repository) coll(name string) *mongo.Collection {
	return r.db.Collection(name)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, what string, opts ...*options.FindOneOptions) (T, error) {
	var out T
	err := coll.FindOne(ctx, filter, opts...).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("find %s: %w", what, err)
	}
	return out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any, what string) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", what, models.ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any, what string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("update %s: %w", what, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string, what string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", what, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}

func window(field string, from, to time.Time) bson.M {
	return bson.M{field: bson.M{"$gte": from, "$lt": to}}
}

var (
	byName          = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	byStartAsc      = options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	byTimestampAsc  = options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	byTimestampDesc = options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
)

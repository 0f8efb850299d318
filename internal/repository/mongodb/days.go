package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func (r *Repository) GetDayRecord(ctx context.Context, date string) (models.DayRecord, error) {
	return findOne[models.DayRecord](ctx, r.coll(dayRecordCollection), bson.M{"_id": date}, "day record "+date)
}

// UpsertDayRecord replaces the document keyed by date, creating it when
// missing. The date is the _id, so a day can never hold two records.
func (r *Repository) UpsertDayRecord(ctx context.Context, record models.DayRecord) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll(dayRecordCollection).ReplaceOne(ctx, bson.M{"_id": record.Date}, record, opts); err != nil {
		return fmt.Errorf("upsert day record %s: %w", record.Date, err)
	}
	return nil
}

func (r *Repository) LatestDayRecordBefore(ctx context.Context, date string) (models.DayRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	return findOne[models.DayRecord](ctx, r.coll(dayRecordCollection), bson.M{"_id": bson.M{"$lt": date}}, "day record before "+date, opts)
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func (r *Repository) CreateSession(ctx context.Context, session models.Session) error {
	return insert(ctx, r.coll(sessionCollection), session, "session "+session.ID)
}

func (r *Repository) UpdateSession(ctx context.Context, session models.Session) error {
	return replace(ctx, r.coll(sessionCollection), session.ID, session, "session "+session.ID)
}

func (r *Repository) GetSession(ctx context.Context, id string) (models.Session, error) {
	return findOne[models.Session](ctx, r.coll(sessionCollection), bson.M{"_id": id}, "session "+id)
}

func (r *Repository) ListSessionsByDate(ctx context.Context, date string) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	return findAll[models.Session](ctx, r.coll(sessionCollection), bson.M{"date": date}, opts)
}

func (r *Repository) FindActiveSession(ctx context.Context, date string) (models.Session, error) {
	return findOne[models.Session](ctx, r.coll(sessionCollection), bson.M{"date": date, "active": true}, "active session on "+date)
}

func (r *Repository) DeactivateSessions(ctx context.Context, date string) (int, error) {
	res, err := r.coll(sessionCollection).UpdateMany(ctx,
		bson.M{"date": date, "active": true},
		bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return 0, fmt.Errorf("deactivate sessions on %s: %w", date, err)
	}
	return int(res.ModifiedCount), nil
}

func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(sessionCollection), id, "session "+id)
}

func (r *Repository) CreateSale(ctx context.Context, sale models.Sale) error {
	return insert(ctx, r.coll(saleCollection), sale, "sale "+sale.ID)
}

func (r *Repository) GetSale(ctx context.Context, id string) (models.Sale, error) {
	return findOne[models.Sale](ctx, r.coll(saleCollection), bson.M{"_id": id}, "sale "+id)
}

func (r *Repository) DeleteSale(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(saleCollection), id, "sale "+id)
}

func (r *Repository) ListSalesBySession(ctx context.Context, sessionID string) ([]models.Sale, error) {
	return findAll[models.Sale](ctx, r.coll(saleCollection), bson.M{"session_id": sessionID}, byTimestampAsc)
}

func (r *Repository) ListSales(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	return findAll[models.Sale](ctx, r.coll(saleCollection), window("timestamp", from, to), byTimestampAsc)
}

func (r *Repository) DeleteSalesBySession(ctx context.Context, sessionID string) error {
	if _, err := r.coll(saleCollection).DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("delete sales of session %s: %w", sessionID, err)
	}
	return nil
}

func (r *Repository) CreateExpense(ctx context.Context, expense models.Expense) error {
	return insert(ctx, r.coll(expenseCollection), expense, "expense "+expense.ID)
}

func (r *Repository) GetExpense(ctx context.Context, id string) (models.Expense, error) {
	return findOne[models.Expense](ctx, r.coll(expenseCollection), bson.M{"_id": id}, "expense "+id)
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(expenseCollection), id, "expense "+id)
}

func (r *Repository) ListExpensesBySession(ctx context.Context, sessionID string) ([]models.Expense, error) {
	return findAll[models.Expense](ctx, r.coll(expenseCollection), bson.M{"session_id": sessionID}, byTimestampAsc)
}

func (r *Repository) ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	return findAll[models.Expense](ctx, r.coll(expenseCollection), window("timestamp", from, to), byTimestampAsc)
}

func (r *Repository) DeleteExpensesBySession(ctx context.Context, sessionID string) error {
	if _, err := r.coll(expenseCollection).DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("delete expenses of session %s: %w", sessionID, err)
	}
	return nil
}

func (r *Repository) CreateQuickExpense(ctx context.Context, qe models.QuickExpense) error {
	return insert(ctx, r.coll(quickExpenseCollection), qe, "quick expense "+qe.ID)
}

func (r *Repository) UpdateQuickExpense(ctx context.Context, qe models.QuickExpense) error {
	return replace(ctx, r.coll(quickExpenseCollection), qe.ID, qe, "quick expense "+qe.ID)
}

func (r *Repository) GetQuickExpense(ctx context.Context, id string) (models.QuickExpense, error) {
	return findOne[models.QuickExpense](ctx, r.coll(quickExpenseCollection), bson.M{"_id": id}, "quick expense "+id)
}

func (r *Repository) ListQuickExpenses(ctx context.Context) ([]models.QuickExpense, error) {
	return findAll[models.QuickExpense](ctx, r.coll(quickExpenseCollection), bson.M{}, byName)
}

func (r *Repository) DeleteQuickExpense(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(quickExpenseCollection), id, "quick expense "+id)
}

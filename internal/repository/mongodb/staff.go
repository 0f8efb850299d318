package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func (r *Repository) CreateEmployee(ctx context.Context, employee models.Employee) error {
	return insert(ctx, r.coll(employeeCollection), employee, "employee "+employee.ID)
}

func (r *Repository) UpdateEmployee(ctx context.Context, employee models.Employee) error {
	return replace(ctx, r.coll(employeeCollection), employee.ID, employee, "employee "+employee.ID)
}

func (r *Repository) GetEmployee(ctx context.Context, id string) (models.Employee, error) {
	return findOne[models.Employee](ctx, r.coll(employeeCollection), bson.M{"_id": id}, "employee "+id)
}

func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return findAll[models.Employee](ctx, r.coll(employeeCollection), bson.M{}, byName)
}

func (r *Repository) DeleteEmployee(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(employeeCollection), id, "employee "+id)
}

// An open shift is stored without an "end" field.
var openShift = bson.M{"end": bson.M{"$exists": false}}

func (r *Repository) CreateShift(ctx context.Context, shift models.Shift) error {
	return insert(ctx, r.coll(shiftCollection), shift, "shift "+shift.ID)
}

func (r *Repository) UpdateShift(ctx context.Context, shift models.Shift) error {
	return replace(ctx, r.coll(shiftCollection), shift.ID, shift, "shift "+shift.ID)
}

func (r *Repository) FindOpenShift(ctx context.Context, employeeID string) (models.Shift, error) {
	filter := bson.M{"employee_id": employeeID, "end": openShift["end"]}
	return findOne[models.Shift](ctx, r.coll(shiftCollection), filter, "open shift for employee "+employeeID)
}

func (r *Repository) ListOpenShifts(ctx context.Context) ([]models.Shift, error) {
	return findAll[models.Shift](ctx, r.coll(shiftCollection), openShift, byStartAsc)
}

func (r *Repository) ListShifts(ctx context.Context, from, to time.Time) ([]models.Shift, error) {
	return findAll[models.Shift](ctx, r.coll(shiftCollection), window("start", from, to), byStartAsc)
}

func (r *Repository) DeleteShifts(ctx context.Context, from, to time.Time) (int, error) {
	res, err := r.coll(shiftCollection).DeleteMany(ctx, window("start", from, to))
	if err != nil {
		return 0, fmt.Errorf("delete shifts: %w", err)
	}
	return int(res.DeletedCount), nil
}

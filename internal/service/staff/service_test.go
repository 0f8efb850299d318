package staff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository/memory"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, *memory.Store, *clock) {
	t.Helper()
	store := memory.NewStore()
	clk := &clock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	return NewService(store, calendar.New(time.UTC, clk.Now), nil), store, clk
}

func TestCreateEmployee(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	employee, err := svc.CreateEmployee(ctx, EmployeeInput{Name: " Mia ", Role: "cook", HourlyWage: models.MustDecimal("14.50")})
	require.NoError(t, err)
	assert.Equal(t, "Mia", employee.Name)
	assert.True(t, employee.Active)

	_, err = svc.CreateEmployee(ctx, EmployeeInput{Name: "Zero", HourlyWage: models.Decimal{}})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	inactive := false
	updated, err := svc.UpdateEmployee(ctx, employee.ID, EmployeeInput{Name: "Mia", Role: "chef", HourlyWage: models.MustDecimal("16"), Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "chef", updated.Role)
	assert.False(t, updated.Active)

	_, err = svc.CheckIn(ctx, employee.ID)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestCheckInCheckOut(t *testing.T) {
	svc, store, clk := newTestService(t)
	ctx := context.Background()

	employee, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Sam", HourlyWage: models.MustDecimal("12")})
	require.NoError(t, err)

	shift, err := svc.CheckIn(ctx, employee.ID)
	require.NoError(t, err)
	assert.True(t, shift.Open())

	_, err = svc.CheckIn(ctx, employee.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyCheckedIn)

	open, err := store.ListOpenShifts(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	err = svc.DeleteEmployee(ctx, employee.ID)
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	clk.now = clk.now.Add(7*time.Hour + 30*time.Minute)
	closed, err := svc.CheckOut(ctx, employee.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.Wage)
	require.NotNil(t, closed.Duration)
	assert.True(t, closed.Duration.Equal(models.MustDecimal("7.5")))
	assert.True(t, closed.Wage.Equal(models.MustDecimal("90")))

	_, err = svc.CheckOut(ctx, employee.ID)
	assert.ErrorIs(t, err, models.ErrNotCheckedIn)

	shifts, err := svc.ShiftsForDay(ctx, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.False(t, shifts[0].Open())

	open, err = svc.OpenShifts(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	require.NoError(t, svc.DeleteEmployee(ctx, employee.ID))
	_, err = svc.GetEmployee(ctx, employee.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	employee, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Lea", HourlyWage: models.MustDecimal("13")})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, employee.ID)
	assert.ErrorIs(t, err, models.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

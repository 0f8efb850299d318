// Package staff manages employees and their check-in/check-out shifts.
package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
	"github.com/mamadbah2/tillbook/internal/service/accounting"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
)

// Store is what the staff service persists to.
type Store interface {
	repository.Transactor
	repository.EmployeeRepository
	repository.ShiftRepository
}

// Service handles employees and shifts.
type Service struct {
	store  Store
	cal    calendar.Calendar
	newID  func() string
	logger *zap.Logger
}

// NewService wires the staff service.
func NewService(store Store, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cal: cal, newID: uuid.NewString, logger: logger}
}

// EmployeeInput carries the editable fields of an employee. Active defaults
// to true on create.
type EmployeeInput struct {
	Name       string
	Role       string
	HourlyWage models.Decimal
	Active     *bool
}

func (in EmployeeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return models.Validationf("name is required")
	}
	if !in.HourlyWage.IsPositive() {
		return models.Validationf("hourlyWage must be greater than zero")
	}
	return nil
}

// CreateEmployee adds an employee.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (models.Employee, error) {
	if err := in.validate(); err != nil {
		return models.Employee{}, err
	}
	employee := models.Employee{
		ID:         s.newID(),
		Name:       strings.TrimSpace(in.Name),
		Role:       strings.TrimSpace(in.Role),
		HourlyWage: in.HourlyWage,
		Active:     in.Active == nil || *in.Active,
		CreatedAt:  s.cal.Now(),
	}
	if err := s.store.CreateEmployee(ctx, employee); err != nil {
		return models.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	s.logger.Info("employee created", zap.String("employee_id", employee.ID), zap.String("name", employee.Name))
	return employee, nil
}

// UpdateEmployee replaces the editable fields. Finished shifts keep the wage
// they were paid at.
func (s *Service) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (models.Employee, error) {
	if err := in.validate(); err != nil {
		return models.Employee{}, err
	}
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}
	employee.Name = strings.TrimSpace(in.Name)
	employee.Role = strings.TrimSpace(in.Role)
	employee.HourlyWage = in.HourlyWage
	if in.Active != nil {
		employee.Active = *in.Active
	}
	if err := s.store.UpdateEmployee(ctx, employee); err != nil {
		return models.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	return employee, nil
}

// GetEmployee loads one employee.
func (s *Service) GetEmployee(ctx context.Context, id string) (models.Employee, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return models.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return employee, nil
}

// ListEmployees returns every employee by name.
func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// DeleteEmployee removes an employee who is not on shift.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	_, err := s.store.FindOpenShift(ctx, id)
	if err == nil {
		return models.Validationf("employee is checked in; check out first")
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("find open shift: %w", err)
	}
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// CheckIn opens a shift. An employee has at most one open shift.
func (s *Service) CheckIn(ctx context.Context, employeeID string) (models.Shift, error) {
	var shift models.Shift
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		employee, err := s.store.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		if !employee.Active {
			return models.Validationf("employee %s is inactive", employee.Name)
		}

		_, err = s.store.FindOpenShift(ctx, employee.ID)
		if err == nil {
			return models.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		shift = models.Shift{ID: s.newID(), EmployeeID: employee.ID, Start: s.cal.Now()}
		return s.store.CreateShift(ctx, shift)
	})
	if err != nil {
		return models.Shift{}, fmt.Errorf("check in: %w", err)
	}

	s.logger.Info("checked in", zap.String("employee_id", employeeID), zap.Time("start", shift.Start))
	return shift, nil
}

// CheckOut closes the open shift and pays it at the current hourly wage.
func (s *Service) CheckOut(ctx context.Context, employeeID string) (models.Shift, error) {
	var shift models.Shift
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		employee, err := s.store.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		open, err := s.store.FindOpenShift(ctx, employee.ID)
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotCheckedIn
		}
		if err != nil {
			return err
		}

		end := s.cal.Now()
		hours, wage := accounting.ShiftPay(open.Start, end, employee.HourlyWage)
		open.End = &end
		open.Duration = &hours
		open.Wage = &wage
		shift = open
		return s.store.UpdateShift(ctx, shift)
	})
	if err != nil {
		return models.Shift{}, fmt.Errorf("check out: %w", err)
	}

	s.logger.Info("checked out",
		zap.String("employee_id", employeeID),
		zap.String("hours", shift.Duration.String()),
		zap.String("wage", shift.Wage.Money()),
	)
	return shift, nil
}

// ShiftsForDay returns the shifts started on date (today when empty).
func (s *Service) ShiftsForDay(ctx context.Context, date string) ([]models.Shift, error) {
	from, to, err := s.cal.Day(date)
	if err != nil {
		return nil, err
	}
	shifts, err := s.store.ListShifts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// OpenShifts returns the shifts of everyone currently checked in.
func (s *Service) OpenShifts(ctx context.Context) ([]models.Shift, error) {
	shifts, err := s.store.ListOpenShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open shifts: %w", err)
	}
	return shifts, nil
}

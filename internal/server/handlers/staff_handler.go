package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/staff"
)

// StaffHandler serves employees and shifts.
type StaffHandler struct {
	svc    *staff.Service
	logger *zap.Logger
}

// NewStaffHandler constructs the staff handler.
func NewStaffHandler(svc *staff.Service, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{svc: svc, logger: orNop(logger)}
}

type employeeRequest struct {
	Name       string         `json:"name"`
	Role       string         `json:"role"`
	HourlyWage models.Decimal `json:"hourlyWage"`
	Active     *bool          `json:"isActive"`
}

func (r employeeRequest) input() staff.EmployeeInput {
	return staff.EmployeeInput{Name: r.Name, Role: r.Role, HourlyWage: r.HourlyWage, Active: r.Active}
}

// ListEmployees returns every employee.
func (h *StaffHandler) ListEmployees(c *gin.Context) {
	employees, err := h.svc.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetEmployee returns one employee.
func (h *StaffHandler) GetEmployee(c *gin.Context) {
	employee, err := h.svc.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// CreateEmployee adds an employee.
func (h *StaffHandler) CreateEmployee(c *gin.Context) {
	var req employeeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	employee, err := h.svc.CreateEmployee(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee replaces an employee.
func (h *StaffHandler) UpdateEmployee(c *gin.Context) {
	var req employeeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	employee, err := h.svc.UpdateEmployee(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee.
func (h *StaffHandler) DeleteEmployee(c *gin.Context) {
	if err := h.svc.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckIn opens a shift.
func (h *StaffHandler) CheckIn(c *gin.Context) {
	shift, err := h.svc.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// CheckOut closes the open shift.
func (h *StaffHandler) CheckOut(c *gin.Context) {
	shift, err := h.svc.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// Shifts returns the shifts started on ?date=.
func (h *StaffHandler) Shifts(c *gin.Context) {
	shifts, err := h.svc.ShiftsForDay(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// OpenShifts returns who is checked in.
func (h *StaffHandler) OpenShifts(c *gin.Context) {
	shifts, err := h.svc.OpenShifts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}

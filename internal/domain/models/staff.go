package models

import "time"

// Employee is a member of staff paid by the hour.
type Employee struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Role       string    `bson:"role" json:"role"`
	HourlyWage Decimal   `bson:"hourly_wage" json:"hourlyWage"`
	Active     bool      `bson:"active" json:"isActive"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Shift is one check-in/check-out cycle. End, Duration and Wage stay nil
// while the shift is open.
type Shift struct {
	ID         string     `bson:"_id" json:"id"`
	EmployeeID string     `bson:"employee_id" json:"employeeId"`
	Start      time.Time  `bson:"start" json:"start"`
	End        *time.Time `bson:"end,omitempty" json:"end,omitempty"`
	Duration   *Decimal   `bson:"duration,omitempty" json:"duration,omitempty"`
	Wage       *Decimal   `bson:"wage,omitempty" json:"calculatedWage,omitempty"`
}

// Open reports whether the employee is still on this shift.
func (s Shift) Open() bool {
	return s.End == nil
}

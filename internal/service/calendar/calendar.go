// Package calendar maps wall-clock time to the till's business days.
package calendar

import (
	"time"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

// Calendar knows the till's time zone and current time.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New builds a calendar. A nil location means UTC and a nil clock means
// time.Now.
func New(loc *time.Location, now func() time.Time) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Calendar{loc: loc, now: now}
}

// Location is the till's time zone.
func (c Calendar) Location() *time.Location {
	return c.loc
}

// Now is the current time in the till's zone.
func (c Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the current business date.
func (c Calendar) Today() string {
	return c.DateOf(c.now())
}

// DateOf formats t as a business date.
func (c Calendar) DateOf(t time.Time) string {
	return t.In(c.loc).Format(models.DateLayout)
}

// Normalize validates date and defaults it to today.
func (c Calendar) Normalize(date string) (string, error) {
	if date == "" {
		return c.Today(), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, date, c.loc)
	if err != nil {
		return "", models.Validationf("date must be formatted YYYY-MM-DD, got %q", date)
	}
	return t.Format(models.DateLayout), nil
}

// Day returns the half-open window [start of date, start of next day).
func (c Calendar) Day(date string) (time.Time, time.Time, error) {
	date, err := c.Normalize(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, _ := time.ParseInLocation(models.DateLayout, date, c.loc)
	return start, start.AddDate(0, 0, 1), nil
}

// Period returns the half-open window of a report period containing date.
// Weeks start on Monday.
func (c Calendar) Period(period models.Period, date string) (time.Time, time.Time, error) {
	start, end, err := c.Day(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch period {
	case models.PeriodDay, "":
		return start, end, nil
	case models.PeriodWeek:
		monday := mondayStart(start)
		return monday, monday.AddDate(0, 0, 7), nil
	case models.PeriodMonth:
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, c.loc)
		return first, first.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, models.Validationf("period must be day, week or month")
	}
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}

package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

func TestTodayUsesLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 23:30 UTC is already the next day in Berlin.
	cal := New(berlin, func() time.Time { return time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC) })
	assert.Equal(t, "2024-03-16", cal.Today())
}

func TestDay(t *testing.T) {
	cal := New(time.UTC, nil)

	from, to, err := cal.Day("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), to)

	_, _, err = cal.Day("15.03.2024")
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestPeriod(t *testing.T) {
	cal := New(time.UTC, nil)

	// 2024-03-15 is a Friday.
	from, to, err := cal.Period(models.PeriodWeek, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", from.Format(models.DateLayout))
	assert.Equal(t, "2024-03-18", to.Format(models.DateLayout))

	from, to, err = cal.Period(models.PeriodWeek, "2024-03-17")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", from.Format(models.DateLayout), "sunday belongs to the week that started monday")
	assert.Equal(t, "2024-03-18", to.Format(models.DateLayout))

	from, to, err = cal.Period(models.PeriodMonth, "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", from.Format(models.DateLayout))
	assert.Equal(t, "2024-03-01", to.Format(models.DateLayout))

	_, _, err = cal.Period("year", "2024-02-10")
	assert.Error(t, err)
}

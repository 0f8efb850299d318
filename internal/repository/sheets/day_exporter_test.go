package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

type call struct {
	op     string
	rng    string
	values []interface{}
}

type fakeRepository struct {
	rows    [][]interface{}
	calls   []call
	readErr error
}

func (f *fakeRepository) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	f.calls = append(f.calls, call{op: "append", rng: sheetRange, values: values})
	return nil
}

func (f *fakeRepository) UpdateRow(_ context.Context, sheetRange string, values []interface{}) error {
	f.calls = append(f.calls, call{op: "update", rng: sheetRange, values: values})
	return nil
}

func (f *fakeRepository) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	f.calls = append(f.calls, call{op: "read", rng: sheetRange})
	return f.rows, f.readErr
}

func record(date string) models.DayRecord {
	actual := models.MustDecimal("120")
	return models.DayRecord{
		Date:        date,
		StartCash:   models.MustDecimal("100"),
		SalesCash:   models.MustDecimal("25"),
		Expenses:    models.MustDecimal("5"),
		EndCash:     actual,
		ActualCash:  &actual,
		FinalProfit: models.MustDecimal("20"),
	}
}

func TestExportDayRecordAppendsNewDate(t *testing.T) {
	repo := &fakeRepository{rows: [][]interface{}{{"date"}, {"2024-03-14"}}}
	exporter := NewDayRecordExporter(repo, "DayRecords!A:L", nil)

	require.NoError(t, exporter.ExportDayRecord(context.Background(), record("2024-03-15")))

	require.Len(t, repo.calls, 2)
	assert.Equal(t, "DayRecords!A:A", repo.calls[0].rng)
	assert.Equal(t, "append", repo.calls[1].op)
	assert.Equal(t, "DayRecords!A:L", repo.calls[1].rng)

	values := repo.calls[1].values
	require.Len(t, values, 12)
	assert.Equal(t, "2024-03-15", values[0])
	assert.Equal(t, "100.00", values[1])
	assert.Equal(t, "120.00", values[6])
	assert.Equal(t, "", values[7])
	assert.Equal(t, "20.00", values[11])
}

func TestExportDayRecordRewritesExistingDate(t *testing.T) {
	repo := &fakeRepository{rows: [][]interface{}{{"date"}, {"2024-03-14"}, {}, {"2024-03-15"}}}
	exporter := NewDayRecordExporter(repo, "DayRecords!A:L", nil)

	require.NoError(t, exporter.ExportDayRecord(context.Background(), record("2024-03-15")))

	require.Len(t, repo.calls, 2)
	assert.Equal(t, "update", repo.calls[1].op)
	assert.Equal(t, "DayRecords!A4:L4", repo.calls[1].rng)
}

func TestExportDayRecordReadFailure(t *testing.T) {
	repo := &fakeRepository{readErr: errors.New("quota exceeded")}
	exporter := NewDayRecordExporter(repo, "DayRecords!A:L", nil)

	err := exporter.ExportDayRecord(context.Background(), record("2024-03-15"))
	require.Error(t, err)
	assert.Len(t, repo.calls, 1)
}

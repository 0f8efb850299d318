package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
)

// DayRecordExporter mirrors closed days into a spreadsheet, one row per
// date. Exporting a date again rewrites its row.
type DayRecordExporter struct {
	repo       Repository
	sheetRange string
	logger     *zap.Logger
}

// NewDayRecordExporter writes to sheetRange, e.g. "DayRecords!A:L".
func NewDayRecordExporter(repo Repository, sheetRange string, logger *zap.Logger) *DayRecordExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayRecordExporter{repo: repo, sheetRange: sheetRange, logger: logger}
}

// ExportDayRecord writes record to the row of its date.
func (e *DayRecordExporter) ExportDayRecord(ctx context.Context, record models.DayRecord) error {
	rows, err := e.repo.ReadRange(ctx, e.sheetName()+"!A:A")
	if err != nil {
		return fmt.Errorf("load exported dates: %w", err)
	}

	values := dayRecordRow(record)
	for i, row := range rows {
		if len(row) == 0 || fmt.Sprint(row[0]) != record.Date {
			continue
		}
		// Sheet rows are 1-based.
		target := fmt.Sprintf("%s!A%d:L%d", e.sheetName(), i+1, i+1)
		if err := e.repo.UpdateRow(ctx, target, values); err != nil {
			return err
		}
		e.logger.Info("day record re-exported", zap.String("date", record.Date), zap.String("range", target))
		return nil
	}

	if err := e.repo.WriteRow(ctx, e.sheetRange, values); err != nil {
		return err
	}
	e.logger.Info("day record exported", zap.String("date", record.Date))
	return nil
}

func (e *DayRecordExporter) sheetName() string {
	name, _, _ := strings.Cut(e.sheetRange, "!")
	return name
}

func dayRecordRow(record models.DayRecord) []interface{} {
	optional := func(d *models.Decimal) string {
		if d == nil {
			return ""
		}
		return d.Money()
	}
	return []interface{}{
		record.Date,
		record.StartCash.Money(),
		record.SalesCash.Money(),
		record.SalesCard.Money(),
		record.Expenses.Money(),
		record.EndCash.Money(),
		optional(record.ActualCash),
		optional(record.Difference),
		record.FinalRevenue.Money(),
		record.FinalExpenses.Money(),
		record.FinalStaffCosts.Money(),
		record.FinalProfit.Money(),
	}
}

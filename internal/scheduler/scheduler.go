package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/config"
	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// ChefReporter builds the report sent at the end of the day.
type ChefReporter interface {
	ChefReport(ctx context.Context, period models.Period, date string) (models.ChefReport, error)
}

// Notifier delivers the summary.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Scheduler runs the daily summary job.
type Scheduler struct {
	cron     *cron.Cron
	reports  ChefReporter
	notifier Notifier
	cfg      config.ReportingConfig
	loc      *time.Location
	logger   *zap.Logger
}

// NewScheduler creates a scheduler evaluating cron expressions in loc.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, reports ChefReporter, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reports:  reports,
		notifier: notifier,
		cfg:      cfg,
		loc:      loc,
		logger:   logger,
	}
}

// Start registers the daily summary and starts the cron runner.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDailySummary); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.loc.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailySummary(ctx, time.Now().In(s.loc)); err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
	}
}

// RunDailySummary sends the chef report of the day containing now.
func (s *Scheduler) RunDailySummary(ctx context.Context, now time.Time) error {
	date := now.In(s.loc).Format(models.DateLayout)
	s.logger.Info("generating daily summary", zap.String("date", date))

	report, err := s.reports.ChefReport(ctx, models.PeriodDay, date)
	if err != nil {
		return fmt.Errorf("build daily summary: %w", err)
	}

	if err := s.notifier.Notify(ctx, reporting.FormatDailySummary(report)); err != nil {
		return fmt.Errorf("send daily summary: %w", err)
	}

	s.logger.Info("daily summary sent", zap.Int("stock_warnings", len(report.InventoryWarnings)))
	return nil
}

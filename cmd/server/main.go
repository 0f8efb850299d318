package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/config"
	"github.com/mamadbah2/tillbook/internal/repository"
	"github.com/mamadbah2/tillbook/internal/repository/memory"
	"github.com/mamadbah2/tillbook/internal/repository/mongodb"
	"github.com/mamadbah2/tillbook/internal/repository/sheets"
	"github.com/mamadbah2/tillbook/internal/scheduler"
	"github.com/mamadbah2/tillbook/internal/server/handlers"
	"github.com/mamadbah2/tillbook/internal/server/router"
	authsvc "github.com/mamadbah2/tillbook/internal/service/auth"
	"github.com/mamadbah2/tillbook/internal/service/calendar"
	inventorysvc "github.com/mamadbah2/tillbook/internal/service/inventory"
	menusvc "github.com/mamadbah2/tillbook/internal/service/menu"
	"github.com/mamadbah2/tillbook/internal/service/notify"
	reportingsvc "github.com/mamadbah2/tillbook/internal/service/reporting"
	sessionsvc "github.com/mamadbah2/tillbook/internal/service/sessions"
	staffsvc "github.com/mamadbah2/tillbook/internal/service/staff"
	"github.com/mamadbah2/tillbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	var exporter sessionsvc.DayExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheets.NewDayRecordExporter(sheetsRepo, cfg.Sheets.DayRecordRange, baseLogger.Named("repo.sheets"))
	} else {
		baseLogger.Info("sheets export disabled")
	}

	cal := calendar.New(cfg.Location(), time.Now)
	notifier := notify.New(cfg.WhatsApp, baseLogger.Named("svc.notify"))

	tokens := authsvc.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := authsvc.NewService(store, tokens, baseLogger.Named("svc.auth"))
	if err := authSvc.EnsureDefaultUser(context.Background(), cfg.Auth.DefaultAdminUsername, cfg.Auth.DefaultAdminPassword); err != nil {
		baseLogger.Fatal("failed to create default user", zap.Error(err))
	}

	menuSvc := menusvc.NewService(store, cal, baseLogger.Named("svc.menu"))
	staffSvc := staffsvc.NewService(store, cal, baseLogger.Named("svc.staff"))
	inventorySvc := inventorysvc.NewService(store, cal, baseLogger.Named("svc.inventory"))
	sessionSvc := sessionsvc.NewService(store, notifier, exporter, cal, cfg.Till.DefaultStartCash, baseLogger.Named("svc.sessions"))
	reportingSvc := reportingsvc.NewService(store, sessionSvc, cal, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:          handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Menu:          handlers.NewMenuHandler(menuSvc, baseLogger.Named("handlers.menu")),
		Staff:         handlers.NewStaffHandler(staffSvc, baseLogger.Named("handlers.staff")),
		Inventory:     handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Sessions:      handlers.NewSessionHandler(sessionSvc, baseLogger.Named("handlers.sessions")),
		Reports:       handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Notifications: handlers.NewNotificationHandler(notifier, baseLogger.Named("handlers.notifications")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, cfg.Location(), reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (repository.Store, error) {
	if cfg.Store.Driver == config.DriverMemory {
		baseLogger.Warn("using in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	repo, err := mongodb.NewRepository(connectCtx, cfg.MongoDB, baseLogger.Named("repo.mongodb"))
	if err != nil {
		return nil, err
	}
	return repo, nil
}

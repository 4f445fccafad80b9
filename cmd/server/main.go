package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/config"
	"github.com/dairydesk/backend/internal/repository/mongodb"
	"github.com/dairydesk/backend/internal/repository/sheets"
	"github.com/dairydesk/backend/internal/scheduler"
	"github.com/dairydesk/backend/internal/server/handlers"
	"github.com/dairydesk/backend/internal/server/router"
	authsvc "github.com/dairydesk/backend/internal/service/auth"
	milksvc "github.com/dairydesk/backend/internal/service/milk"
	"github.com/dairydesk/backend/internal/service/notify"
	paymentsvc "github.com/dairydesk/backend/internal/service/payments"
	reportingsvc "github.com/dairydesk/backend/internal/service/reporting"
	usersvc "github.com/dairydesk/backend/internal/service/users"
	whatsappclient "github.com/dairydesk/backend/pkg/clients/whatsapp"
	"github.com/dairydesk/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Debug))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	transactions := store.Transactions()
	userRepo := store.Users()

	reportingSvc := reportingsvc.NewService(transactions, userRepo, store.Feed(), baseLogger.Named("svc.reporting"))
	milkSvc := milksvc.NewService(transactions, baseLogger.Named("svc.milk"))
	paymentsSvc := paymentsvc.NewService(store.Payments(), userRepo, baseLogger.Named("svc.payments"))
	usersSvc := usersvc.NewService(userRepo, baseLogger.Named("svc.users"))
	authSvc := authsvc.NewService(userRepo, cfg.Auth, baseLogger.Named("svc.auth"))

	var notifySvc *notify.Service
	if cfg.WhatsApp.Enabled() {
		client := whatsappclient.NewClient(cfg.WhatsApp)
		notifySvc = notify.NewService(client, cfg.WhatsApp.DigestRecipient, baseLogger.Named("svc.notify"))
		baseLogger.Info("whatsapp digest enabled", zap.String("recipient", cfg.WhatsApp.DigestRecipient))
	} else {
		baseLogger.Warn("whatsapp credentials missing, daily digest delivery disabled")
	}

	var mirror sheets.Mirror
	if cfg.Sheets.Enabled() {
		sheetMirror, err := sheets.NewGoogleSheetMirror(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets mirror", zap.Error(err))
		}
		mirror = sheetMirror
	} else {
		baseLogger.Warn("sheets credentials missing, digest mirror disabled")
	}

	engine := router.New(router.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Milk:     handlers.NewMilkHandler(milkSvc, baseLogger.Named("handlers.milk")),
		Payments: handlers.NewPaymentsHandler(paymentsSvc, baseLogger.Named("handlers.payments")),
		Users:    handlers.NewUsersHandler(usersSvc, baseLogger.Named("handlers.users")),
		Reports:  handlers.NewReportsHandler(reportingSvc, cfg.Reporting.AggregationTimeout, baseLogger.Named("handlers.reports")),
	}, authSvc, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifySvc, mirror, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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

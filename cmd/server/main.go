package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/config"
	"github.com/mamadbah2/cctvstore/internal/repository/sheets"
	"github.com/mamadbah2/cctvstore/internal/scheduler"
	"github.com/mamadbah2/cctvstore/internal/server/handlers"
	"github.com/mamadbah2/cctvstore/internal/server/router"
	"github.com/mamadbah2/cctvstore/internal/service/auth"
	"github.com/mamadbah2/cctvstore/internal/service/catalog"
	"github.com/mamadbah2/cctvstore/internal/service/invoice"
	"github.com/mamadbah2/cctvstore/internal/service/orders"
	"github.com/mamadbah2/cctvstore/internal/service/reporting"
	"github.com/mamadbah2/cctvstore/internal/service/suppliers"
	"github.com/mamadbah2/cctvstore/pkg/clients/notify"
	"github.com/mamadbah2/cctvstore/pkg/logger"
	"github.com/mamadbah2/cctvstore/pkg/token"
	"github.com/mamadbah2/cctvstore/pkg/validator"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Environment))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if err := validator.Register(); err != nil {
		baseLogger.Fatal("failed to register validators", zap.Error(err))
	}

	repos, err := openRepositories(context.Background(), cfg, baseLogger.Named("repo"))
	if err != nil {
		baseLogger.Fatal("failed to init repositories", zap.Error(err))
	}
	defer func() {
		if err := repos.close(context.Background()); err != nil {
			baseLogger.Error("failed to close store connection", zap.Error(err))
		}
	}()

	loc := cfg.Location()
	reportDeps := reporting.Deps{
		Orders:    repos.orders,
		Products:  repos.products,
		Summaries: repos.summaries,
	}

	if cfg.Sheets.Enabled() {
		tab, err := sheets.NewGoogleTab(context.Background(), cfg.Sheets, cfg.Sheets.SummaryTab, sheets.SummaryLastColumn, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets summary tab", zap.Error(err))
		}
		reportDeps.Ledger = sheets.NewLedger(tab)
		baseLogger.Info("google sheets summary export enabled")
	} else {
		baseLogger.Warn("google sheets not configured, summary export disabled")
	}

	if cfg.Notify.WebhookURL != "" {
		notifier, err := notify.NewClient(cfg.Notify)
		if err != nil {
			baseLogger.Fatal("failed to init notify client", zap.Error(err))
		}
		reportDeps.Notifier = notifier
		baseLogger.Info("summary digest webhook enabled")
	}

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := auth.NewService(repos.users, tokens, baseLogger.Named("svc.auth"))
	catalogSvc := catalog.NewService(repos.products, loc, baseLogger.Named("svc.catalog"))
	supplierSvc := suppliers.NewService(repos.suppliers, repos.sequences, baseLogger.Named("svc.suppliers"))
	orderSvc := orders.NewService(orders.Stores{
		Products:   repos.products,
		Orders:     repos.orders,
		DebitNotes: repos.debitNotes,
		Sequences:  repos.sequences,
	}, loc, baseLogger.Named("svc.orders"))
	reportingSvc := reporting.NewService(reportDeps, cfg.Reporting.LowStockThreshold, loc, baseLogger.Named("svc.reporting"))
	invoices := invoice.NewRenderer(cfg.Company, loc)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := router.New(cfg.Server, cfg.Auth, router.Deps{
		Auth:          handlers.NewAuthHandler(authSvc, cfg.Auth, baseLogger.Named("handlers.auth")),
		Products:      handlers.NewProductHandler(catalogSvc, cfg.Reporting.LowStockThreshold, baseLogger.Named("handlers.products")),
		Suppliers:     handlers.NewSupplierHandler(supplierSvc, baseLogger.Named("handlers.suppliers")),
		Orders:        handlers.NewOrderHandler(orderSvc, invoices, reportingSvc, baseLogger.Named("handlers.orders")),
		Authenticator: authSvc,
		Store:         repos,
		Registry:      registry,
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Storage.Driver))
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

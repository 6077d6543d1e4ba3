package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/config"
	"github.com/masaken/backoffice/internal/repository/records"
	"github.com/masaken/backoffice/internal/server/handlers"
	"github.com/masaken/backoffice/internal/server/router"
	catalogsvc "github.com/masaken/backoffice/internal/service/catalog"
	debtsvc "github.com/masaken/backoffice/internal/service/debt"
	messagingsvc "github.com/masaken/backoffice/internal/service/messaging"
	reportsvc "github.com/masaken/backoffice/internal/service/report"
	resalesvc "github.com/masaken/backoffice/internal/service/resale"
	settingssvc "github.com/masaken/backoffice/internal/service/settings"
	"github.com/masaken/backoffice/pkg/clients/postgrest"
	"github.com/masaken/backoffice/pkg/clients/whatsapp"
	"github.com/masaken/backoffice/pkg/clipboard"
	"github.com/masaken/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(os.Getenv("APP_ENV") == "development"))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	storeClient := postgrest.NewClient(cfg.Store)
	repo := records.NewStoreRepository(storeClient, baseLogger.Named("repo.records"))

	board := clipboard.NewBoard(clipboard.SystemWriter{}, clipboard.DefaultAckDelay)
	links := whatsapp.NewLinkBuilder(cfg.Messaging)

	catalogSvc := catalogsvc.NewService(repo, baseLogger.Named("svc.catalog"))
	debtLedger := debtsvc.NewLedger(repo, baseLogger.Named("svc.debt"))
	resaleLedger := resalesvc.NewLedger(repo, baseLogger.Named("svc.resale"))
	reportSvc := reportsvc.NewService(repo, baseLogger.Named("svc.report"))
	settingsSvc := settingssvc.NewService(cfg, repo, baseLogger.Named("svc.settings"))
	composer := messagingsvc.NewComposer(links, baseLogger.Named("svc.messaging"))

	engine := router.New(router.Handlers{
		Debt:     handlers.NewDebtHandler(catalogSvc, debtLedger, board, baseLogger.Named("handlers.debt")),
		Resale:   handlers.NewResaleHandler(catalogSvc, resaleLedger, board, baseLogger.Named("handlers.resale")),
		Report:   handlers.NewReportHandler(reportSvc, board, baseLogger.Named("handlers.report")),
		Settings: handlers.NewSettingsHandler(settingsSvc, baseLogger.Named("handlers.settings")),
		Messages: handlers.NewMessageHandler(catalogSvc, composer, board, baseLogger.Named("handlers.messages")),
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

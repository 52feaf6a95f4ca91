package main

import (
	"errors"
	stdlog "log"
	"net/http"

	"go.uber.org/zap"

	adapthttp "healthmetrics/internal/adapter/http"
	"healthmetrics/internal/adapter/postgres"
	"healthmetrics/internal/app"
	"healthmetrics/internal/config"
	"healthmetrics/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ingestSvc := app.NewIngestService(db, log, cfg.IngestWorkers)
	statsSvc := app.NewStatsService(db, cfg.BucketWorkers)
	recordsSvc := app.NewRecordsService(db)

	h := adapthttp.New(ingestSvc, statsSvc, recordsSvc, log).Handler()
	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", zap.Error(err))
	}
}

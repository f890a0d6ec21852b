package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/rescueops/foodledger/internal/config"
	"github.com/rescueops/foodledger/internal/db"
	"github.com/rescueops/foodledger/internal/ledger"
	"github.com/rescueops/foodledger/internal/logging"
	"github.com/rescueops/foodledger/internal/mirror"
	"github.com/rescueops/foodledger/internal/scheduler"
	"github.com/rescueops/foodledger/internal/store"
	"github.com/rescueops/foodledger/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	var entryMirror store.EntryMirror
	if cfg.MirrorXLSXPath != "" {
		entryMirror = mirror.New(cfg.MirrorXLSXPath)
		logger.Info("entry mirror enabled", "path", cfg.MirrorXLSXPath)
	}

	entryStore := store.NewEntryStore(database, entryMirror)
	alertStore := store.NewAlertStore(database)
	svc := ledger.NewService(entryStore, alertStore, logger)

	ctx := context.Background()
	if err := entryStore.BootstrapMirror(ctx); err != nil {
		logger.Error("failed to bootstrap entry mirror", "error", err)
		return
	}

	// Sweep once on startup, then on the cron schedule.
	if _, err := svc.RunExpiryCheck(ctx, time.Now().UTC()); err != nil {
		logger.Error("startup expiry check failed", "error", err)
	}

	cronRunner, err := scheduler.Start(cfg.ExpiryCron, svc, logger)
	if err != nil {
		logger.Error("failed to start expiry scheduler", "error", err)
		return
	}
	defer cronRunner.Stop()

	server := web.NewServer(svc, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

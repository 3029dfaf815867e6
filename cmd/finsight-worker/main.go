package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"finsight/internal/cli"
	"finsight/internal/event"
	"finsight/internal/export"
	exportgoogle "finsight/internal/export/google"
	applog "finsight/internal/log"
	"finsight/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting finsight-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Google Sheets report is optional
	var writer export.DigestWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := exportgoogle.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleReportSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets report enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets report disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	eventClient, err := event.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer eventClient.Close()

	digestWorker := worker.NewDigestWorker(repo, writer, cfg.TotalBudgetCents)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eventClient.ConsumeChanges(ctx, digestWorker.HandleChange)
	})
	g.Go(func() error {
		return digestWorker.RunPeriodic(ctx, cfg.DigestInterval)
	})

	logger.Info("Worker running",
		"queue", cfg.AMQPQueue,
		"digest_interval", cfg.DigestInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

package main

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"tally/internal/cli"
	"tally/internal/events"
	"tally/internal/log"
	"tally/internal/mirror"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if !cfg.MirrorEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	stream, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to connect to broker", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer stream.Close()

	sheet, err := mirror.NewClient(ctx, mirror.Settings{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CredentialsFile: cfg.GoogleCredentialsFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize sheets client", log.FieldError, err.Error())
		os.Exit(1)
	}
	if err := sheet.Ping(ctx); err != nil {
		logger.Error("Spreadsheet not reachable", log.FieldError, err.Error())
		os.Exit(1)
	}

	worker := mirror.NewWorker(sheet, stream, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

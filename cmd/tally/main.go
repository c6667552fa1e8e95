package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/backend"
	"tally/internal/cli"
	"tally/internal/currency"
	"tally/internal/events"
	apphttp "tally/internal/http"
	"tally/internal/ledger"
	"tally/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	kvStore, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage backend",
			log.FieldError, err.Error(),
			log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer kvStore.Close()

	store := ledger.New(kvStore)
	if err := store.Restore(ctx); err != nil {
		logger.Error("Failed to restore ledger", log.FieldError, err.Error())
		os.Exit(1)
	}

	// One fetch at startup; the static table covers us when the API is down.
	rates := currency.NewLoader(cfg.RatesURL, cfg.RatesTimeout).Load(ctx)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsEnabled() {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to connect to broker, continuing without events",
				log.FieldError, err.Error())
		} else {
			publisher = client
			defer client.Close()
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, rates, publisher, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tally server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

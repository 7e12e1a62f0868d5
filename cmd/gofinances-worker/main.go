package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"gofinances/internal/amqp"
	"gofinances/internal/cli"
	applog "gofinances/internal/log"
	gsheet "gofinances/internal/sheets/google"
	"gofinances/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gofinances-worker:", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the AMQP connection is always closed.
func run() error {
	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cli.SetupLogger(cfg, "gofinances-worker")

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration validation failed", applog.FieldError, err)
		return err
	}

	ctx := cli.GracefulShutdown(logger, 10*time.Second, nil)

	sheetsClient, err := gsheet.NewFromConfig(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		return err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		return err
	}
	defer func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Closing AMQP connection failed", applog.FieldError, err)
		}
	}()

	mirror := worker.NewMirrorWorker(sheetsClient, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mirror.Run(ctx, amqpClient)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		return err
	}
	logger.Info("Worker stopped gracefully")
	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scanline-labs/receipt-scanner/internal/common"
	"github.com/scanline-labs/receipt-scanner/internal/export"
	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
	"github.com/scanline-labs/receipt-scanner/internal/pipeline"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
	"github.com/scanline-labs/receipt-scanner/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var (
		receipts repository.ReceiptRepository
		closeDB  func()
	)
	switch cfg.Database.Driver {
	case "postgres":
		repo, err := repository.OpenPostgres(ctx, repository.PoolConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("opening postgres", "error", err)
			os.Exit(1)
		}
		receipts = repo
		closeDB = repo.Close
	default:
		repo, err := repository.OpenSQLite(ctx, cfg.Database.DSN, logger)
		if err != nil {
			logger.Error("opening sqlite", "error", err)
			os.Exit(1)
		}
		receipts = repo
		closeDB = func() { _ = repo.Close() }
	}
	defer closeDB()

	// OCR client
	annotator, err := ocr.NewVisionClient(ctx, cfg.OCR.CredentialsFile, logger)
	if err != nil {
		logger.Error("creating vision client", "error", err)
		os.Exit(1)
	}
	defer annotator.Close()

	extractor := layout.NewExtractor(logger)
	processor := pipeline.NewProcessor(logger, annotator, extractor, receipts)
	exporter := export.NewService(receipts, logger)

	srv := server.New(logger, processor, extractor, receipts, exporter)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}

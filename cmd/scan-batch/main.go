// scan-batch walks a directory of receipt images, runs each through OCR and
// extraction, and stores the results.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/scanline-labs/receipt-scanner/internal/ingest"
	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
	"github.com/scanline-labs/receipt-scanner/internal/pipeline"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

func main() {
	fs := ff.NewFlagSet("scan-batch")
	var (
		root        = fs.StringLong("root", "", "Directory of receipt images to process")
		dbPath      = fs.StringLong("db", "receipts.db", "SQLite database file path")
		userID      = fs.StringLong("user", "anonymous", "User to file receipts under")
		credentials = fs.StringLong("credentials", "", "Google credentials file (or set GOOGLE_APPLICATION_CREDENTIALS)")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *root == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --root is required")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	receipts, err := repository.OpenSQLite(ctx, *dbPath, logger)
	if err != nil {
		logger.Error("opening sqlite", "error", err)
		os.Exit(1)
	}
	defer receipts.Close()

	annotator, err := ocr.NewVisionClient(ctx, *credentials, logger)
	if err != nil {
		logger.Error("creating vision client", "error", err)
		os.Exit(1)
	}
	defer annotator.Close()

	processor := pipeline.NewProcessor(logger, annotator, layout.NewExtractor(logger), receipts)
	ingestor := ingest.NewIngestor(logger, processor)

	results, stats, err := ingestor.IngestDirectory(ctx, *root, *userID)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	for _, r := range results {
		if r.Err != "" {
			fmt.Printf("FAIL  %s: %s\n", r.Path, r.Err)
		} else {
			fmt.Printf("OK    %s -> %s\n", r.Path, r.ReceiptID)
		}
	}
	fmt.Printf("scanned=%d matched=%d succeeded=%d skipped=%d failed=%d\n",
		stats.Scanned, stats.Matched, stats.Succeeded, stats.Skipped, stats.Failed)
}

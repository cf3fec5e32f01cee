// scan parses a single receipt from the command line: either a saved Vision
// JSON response or an image sent to the Vision API, printing the structured
// result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
)

func main() {
	fs := ff.NewFlagSet("scan")
	var (
		input       = fs.StringLong("input", "", "Path to a receipt image or a saved Vision JSON response")
		credentials = fs.StringLong("credentials", "", "Google credentials file (images only; or set GOOGLE_APPLICATION_CREDENTIALS)")
		verbose     = fs.BoolLong("verbose", "Enable debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *input == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --input is required")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	res, err := annotate(ctx, *input, *credentials, logger)
	if err != nil {
		logger.Error("ocr failed", "input", *input, "error", err)
		os.Exit(1)
	}

	parsed, err := layout.NewExtractor(logger).Extract(res)
	if err != nil {
		logger.Error("extraction failed", "input", *input, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		logger.Error("encoding result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func annotate(ctx context.Context, input, credentials string, logger *slog.Logger) (*ocr.Result, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if strings.EqualFold(filepath.Ext(input), ".json") {
		return ocr.ResultFromJSON(data)
	}

	client, err := ocr.NewVisionClient(ctx, credentials, logger)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return client.Annotate(ctx, data)
}

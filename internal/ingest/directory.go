// Package ingest batch-processes a directory of receipt images through the
// scanning pipeline.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/scanline-labs/receipt-scanner/constants"
	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/pipeline"
)

// FileResult is the outcome for one file in a batch.
type FileResult struct {
	Path      string
	ReceiptID string
	Err       string
}

// DirStats aggregates a batch run.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Skipped   uint32
	Failed    uint32
}

// Ingestor walks directories and feeds each matching image to the pipeline.
type Ingestor struct {
	Logger    *slog.Logger
	Processor *pipeline.Processor
}

func NewIngestor(logger *slog.Logger, processor *pipeline.Processor) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{Logger: logger, Processor: processor}
}

// IngestDirectory walks root, skipping hidden entries and non-image
// extensions, and processes each file under userID. Files the engine finds
// nothing extractable in count as skipped, not failed; the walk continues
// past individual errors.
func (u *Ingestor) IngestDirectory(ctx context.Context, root, userID string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		if err := ctx.Err(); err != nil {
			return err
		}

		image, err := os.ReadFile(path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		rec, err := u.Processor.ProcessImage(ctx, image, userID)
		if err != nil {
			if errors.Is(err, layout.ErrNoText) {
				u.Logger.Warn("ingest.skip", "path", path, "reason", "no text detected")
				results = append(results, FileResult{Path: path, Err: err.Error()})
				stats.Skipped++
				return nil
			}
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, FileResult{Path: path, ReceiptID: rec.ID.String()})
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return results, stats, err
	}

	u.Logger.Info("ingest.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

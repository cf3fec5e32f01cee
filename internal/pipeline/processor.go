// Package pipeline coordinates the stages of handling one uploaded receipt:
// OCR, layout extraction, persistence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
	"github.com/scanline-labs/receipt-scanner/internal/layout"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

// Processor runs OCR, then layout extraction, then stores the result.
type Processor struct {
	Logger    *slog.Logger
	Annotator ocr.Annotator
	Extractor *layout.Extractor
	Receipts  repository.ReceiptRepository
}

func NewProcessor(logger *slog.Logger, annotator ocr.Annotator, extractor *layout.Extractor, receipts repository.ReceiptRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Annotator: annotator, Extractor: extractor, Receipts: receipts}
}

// ProcessImage annotates the image, extracts the receipt, and persists it
// under userID. A layout.ErrNoText from the engine propagates unchanged so
// the caller can tell "nothing extractable" apart from infrastructure
// failures.
func (p *Processor) ProcessImage(ctx context.Context, image []byte, userID string) (*entity.Receipt, error) {
	res, err := p.Annotator.Annotate(ctx, image)
	if err != nil {
		p.Logger.Error("pipeline.ocr.failed", "user_id", userID, "err", err)
		return nil, fmt.Errorf("ocr: %w", err)
	}
	p.Logger.Info("pipeline.ocr.ok", "user_id", userID, "annotations", len(res.Annotations))

	rec, err := p.ProcessResult(ctx, res, userID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ProcessResult runs extraction and persistence on an already-annotated OCR
// result, e.g. a saved Vision response.
func (p *Processor) ProcessResult(ctx context.Context, res *ocr.Result, userID string) (*entity.Receipt, error) {
	parsed, err := p.Extractor.Extract(res)
	if err != nil {
		p.Logger.Warn("pipeline.extract.failed", "user_id", userID, "err", err)
		return nil, err
	}
	p.Logger.Info("pipeline.extract.ok",
		"user_id", userID,
		"store", parsed.StoreName,
		"items", len(parsed.Items),
	)

	rec := &entity.Receipt{
		ID:            uuid.New(),
		UserID:        userID,
		UploadedAt:    time.Now().UTC(),
		ParsedReceipt: *parsed,
	}
	if err := p.Receipts.Save(ctx, rec); err != nil {
		p.Logger.Error("pipeline.store.failed", "receipt_id", rec.ID, "err", err)
		return nil, fmt.Errorf("store receipt: %w", err)
	}
	p.Logger.Info("pipeline.store.ok", "receipt_id", rec.ID, "user_id", userID)
	return rec, nil
}

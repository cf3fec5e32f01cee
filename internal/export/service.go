package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/scanline-labs/receipt-scanner/internal/repository"
)

// Service is a tiny façade over the receipt repository that produces XLSX
// bytes for exports.
type Service struct {
	receipts repository.ReceiptRepository
	logger   *slog.Logger
}

func NewService(receipts repository.ReceiptRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{receipts: receipts, logger: logger}
}

// ExportReceiptsXLSX returns an XLSX workbook (as bytes) listing a user's
// receipts, newest upload first.
func (s *Service) ExportReceiptsXLSX(ctx context.Context, userID string) ([]byte, error) {
	start := time.Now()

	recs, err := s.receipts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Store",
		"Date",
		"Tax",
		"Total",
		"Items",
		"Uploaded At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.StoreName)
		write(2, strOrEmpty(r.Date))
		write(3, strOrEmpty(r.Tax))
		write(4, strOrEmpty(r.Total))
		write(5, len(r.Items))
		write(6, r.UploadedAt.UTC().Format(time.RFC3339))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // store
	_ = f.SetColWidth(sheet, "B", "B", 14) // date
	_ = f.SetColWidth(sheet, "F", "F", 22) // uploaded at

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"user_id", userID,
		"receipts", len(recs),
		"bytes", buf.Len(),
		"duration", time.Since(start),
	)
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

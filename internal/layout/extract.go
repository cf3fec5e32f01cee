// Package layout reconstructs a structured receipt from raw OCR geometry:
// tokens with pixel bounding boxes go in, a store name, date, line items,
// tax and total come out. The whole pipeline is a pure, synchronous
// transformation; concurrent calls need no coordination.
package layout

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
	"github.com/scanline-labs/receipt-scanner/internal/ocr"
)

// ErrNoText is returned when the OCR result carries no annotations, or no
// tokens remain after the full-text entry. The caller should treat it as a
// terminal failure for that input; retrying the same input cannot succeed.
var ErrNoText = errors.New("no text detected in ocr result")

// Extractor runs the layout extraction pipeline.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract converts one OCR result into a ParsedReceipt. Any individual
// field may come back absent; that is degradation, not failure. The only
// error condition is an input with nothing extractable.
func (e *Extractor) Extract(res *ocr.Result) (*entity.ParsedReceipt, error) {
	if res == nil || len(res.Annotations) == 0 {
		return nil, ErrNoText
	}
	tokens := normalizeTokens(res.Tokens())
	if len(tokens) == 0 {
		return nil, ErrNoText
	}

	lines := buildLines(clusterLines(tokens))

	date := findDate(lines, res.FullText())

	scan := scanLines(lines)
	backfillNames(scan.items, lines)
	items := filterItems(scan.items)

	total := scan.total
	if total == "" {
		total = resolveTotal(lines, scan.candidatePrices)
	}

	rec := &entity.ParsedReceipt{
		StoreName: storeName(res.FullText()),
		Items:     items,
	}
	if date != "" {
		rec.Date = &date
	}
	if scan.tax != "" {
		tax := scan.tax
		rec.Tax = &tax
	}
	if total != "" {
		rec.Total = &total
	}

	e.logger.Debug("layout.extract.ok",
		"lines", len(lines),
		"items", len(items),
		"has_date", rec.Date != nil,
		"has_total", rec.Total != nil,
	)
	return rec, nil
}

// resolveTotal is the fallback when no administrative row yielded a total:
// first a bottom-to-top scan for a total/tender line, then the maximum of
// the candidate-price pool. The pool maximum can misfire when a discount
// makes the true total smaller than the largest line item; that is accepted
// as a last-resort heuristic.
func resolveTotal(lines []line, pool []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if totalKeywordPattern.MatchString(lines[i].text) {
			if p, ok := lastPriceOn(lines[i].text); ok {
				return p
			}
		}
	}
	best := 0.0
	found := false
	for _, p := range pool {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		if !found || f > best {
			best, found = f, true
		}
	}
	if !found {
		return ""
	}
	return strconv.FormatFloat(best, 'f', 2, 64)
}

// storeName takes the first non-blank line of the raw full-text blob,
// independent of line clustering.
func storeName(fullText string) string {
	for _, ln := range strings.Split(fullText, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			return s
		}
	}
	return "Unknown"
}

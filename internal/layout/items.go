package layout

import (
	"regexp"
	"strings"

	"github.com/scanline-labs/receipt-scanner/constants"
	"github.com/scanline-labs/receipt-scanner/internal/entity"
)

var (
	// adminLinePattern flags administrative rows: totals, tax, payment and
	// register metadata. Substring matching over the whole line.
	adminLinePattern = regexp.MustCompile(`(?i)` + strings.Join(constants.AdministrativeKeywords, "|"))

	// totalKeywordPattern and taxKeywordPattern harvest values off
	// administrative rows; word-bounded so SUBTOTAL does not read as TOTAL.
	totalKeywordPattern = regexp.MustCompile(`(?i)\btotal\b|\btend\b`)
	taxKeywordPattern   = regexp.MustCompile(`(?i)\btax\b`)

	// repairSkipPattern guards the 2-line name repair: a neighbor carrying
	// these words is not usable as an item name.
	repairSkipPattern = regexp.MustCompile(`(?i)subtotal|tax|tend|total|change|items sold`)

	// backfillSkipPattern is the narrower guard for the 3-line backfill pass.
	backfillSkipPattern = regexp.MustCompile(`(?i)total|tend|change|tax`)

	// nameLeakPattern drops items whose backfilled name is really an
	// administrative line's text.
	nameLeakPattern = regexp.MustCompile(`(?i)\b(total|tend|change|tax)\b`)

	longDigitRun    = regexp.MustCompile(`\b\d{5,}\b`)
	longerDigitRun  = regexp.MustCompile(`\b\d{12,}\b`)
	trailingInitial = regexp.MustCompile(`\s+[A-Z]\b`)
	edgePunct       = regexp.MustCompile(`^[\W_]+|[\W_]+$`)
	multiSpace      = regexp.MustCompile(`\s{2,}`)
)

// pendingItem is an item mid-extraction. An empty name means the price was
// found but no name could be derived yet; lineIdx records the row the price
// came from so backfill can look at its neighbors.
type pendingItem struct {
	name    string
	price   string
	lineIdx int
}

// lineScan accumulates everything a single pass over the built lines
// produces: items, harvested tax/total, and the candidate-price pool the
// total fallback draws from.
type lineScan struct {
	items           []pendingItem
	candidatePrices []string
	total           string
	tax             string
}

// scanLines walks the built lines once. Administrative rows contribute
// tax/total (last price-like substring; later rows overwrite earlier ones)
// and are excluded from item extraction. A non-administrative row with a
// price token yields an item: the rightmost price token by minX is the
// price, everything strictly left of it is the name candidate.
func scanLines(lines []line) lineScan {
	var scan lineScan
	for i, ln := range lines {
		if strings.TrimSpace(ln.text) == "" {
			continue
		}

		if adminLinePattern.MatchString(ln.text) {
			if totalKeywordPattern.MatchString(ln.text) {
				if p, ok := lastPriceOn(ln.text); ok {
					scan.total = p
				}
			}
			if taxKeywordPattern.MatchString(ln.text) {
				if p, ok := lastPriceOn(ln.text); ok {
					scan.tax = p
				}
			}
			continue
		}

		chosen, price, ok := rightmostPriceToken(ln.tokens)
		if !ok {
			// No price token, but price-like text still feeds the pool.
			for _, m := range priceLikePattern.FindAllString(ln.text, -1) {
				scan.candidatePrices = append(scan.candidatePrices, strings.ReplaceAll(m, ",", ""))
			}
			continue
		}
		scan.candidatePrices = append(scan.candidatePrices, price)

		name := nameCandidate(ln.tokens, chosen)
		if name == "" || !letterPattern.MatchString(name) {
			name = repairName(lines, i)
		}
		name = sanitizeName(name)
		if name == "" || !letterPattern.MatchString(name) {
			name = "" // deferred to backfill
		}
		scan.items = append(scan.items, pendingItem{name: name, price: price, lineIdx: i})
	}
	return scan
}

// rightmostPriceToken picks the price for a row: among tokens carrying a
// price, the one whose box starts furthest right. Left-aligned quantity and
// unit-price numbers lose to it.
func rightmostPriceToken(tokens []token) (token, string, bool) {
	var chosen token
	var chosenPrice string
	found := false
	for _, t := range tokens {
		p, ok := priceFromToken(t)
		if !ok {
			continue
		}
		if !found || t.minX >= chosen.minX {
			chosen, chosenPrice, found = t, p, true
		}
	}
	return chosen, chosenPrice, found
}

// nameCandidate joins, in reading order, the tokens lying strictly left of
// the chosen price token.
func nameCandidate(tokens []token, price token) string {
	var parts []string
	for _, t := range tokens {
		if t.maxX < price.minX-1 {
			parts = append(parts, t.text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// repairName looks backward up to two lines for the nearest row that has a
// letter and is not keyword-flagged, and adopts its full text.
func repairName(lines []line, idx int) string {
	for back := 1; back <= 2; back++ {
		if idx-back < 0 {
			break
		}
		prev := lines[idx-back]
		if letterPattern.MatchString(prev.text) && !repairSkipPattern.MatchString(prev.text) {
			return strings.TrimSpace(prev.text)
		}
	}
	return ""
}

// sanitizeName strips register noise from a name candidate: long digit runs
// (UPCs, card numbers), trailing single-letter cashier codes, and edge
// punctuation; internal whitespace runs collapse to one space.
func sanitizeName(name string) string {
	name = longDigitRun.ReplaceAllString(name, "")
	name = longerDigitRun.ReplaceAllString(name, "")
	name = trailingInitial.ReplaceAllString(name, "")
	name = edgePunct.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// backfillNames is the second pass over extracted items: each still-nameless
// item adopts the text of the nearest prior line (up to three back from its
// source row) that has a letter and no total/tender/change/tax wording.
// "(unknown)" is the terminal fallback.
func backfillNames(items []pendingItem, lines []line) {
	for idx := range items {
		if items[idx].name != "" {
			continue
		}
		for back := 1; back <= 3; back++ {
			li := items[idx].lineIdx - back
			if li < 0 {
				break
			}
			ln := lines[li]
			if letterPattern.MatchString(ln.text) && !backfillSkipPattern.MatchString(ln.text) {
				items[idx].name = strings.TrimSpace(ln.text)
				break
			}
		}
		if items[idx].name == "" {
			items[idx].name = "(unknown)"
		}
	}
}

// filterItems drops items whose resolved name is an administrative leak and
// gives surviving names a final whitespace pass. Items without a price are
// dropped outright; scanLines should never produce one.
func filterItems(items []pendingItem) []entity.Item {
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if nameLeakPattern.MatchString(it.name) {
			continue
		}
		if it.price == "" {
			continue
		}
		name := strings.TrimSpace(multiSpace.ReplaceAllString(it.name, " "))
		out = append(out, entity.Item{Name: name, Price: it.price})
	}
	return out
}

package layout

import (
	"regexp"
	"strings"
)

var (
	// priceTokenPattern accepts a whole token that is exactly a price,
	// optionally with a dollar sign and thousands separators.
	priceTokenPattern = regexp.MustCompile(`^\$?\d{1,3}(,\d{3})*\.\d{2}$`)

	// looseDecimalPattern accepts tokens that merely contain a two-decimal
	// number, e.g. "3.00F" tax-flag suffixes.
	looseDecimalPattern = regexp.MustCompile(`\d+\.\d{2}`)

	// priceLikePattern finds price-like substrings anywhere in a line.
	priceLikePattern = regexp.MustCompile(`\d{1,3}(,\d{3})*\.\d{2}`)

	letterPattern = regexp.MustCompile(`[A-Za-z]`)
)

// priceFromToken extracts the normalized price carried by a single token,
// if any. Thousands separators are stripped.
func priceFromToken(t token) (string, bool) {
	if !priceTokenPattern.MatchString(t.text) && !looseDecimalPattern.MatchString(t.text) {
		return "", false
	}
	m := priceLikePattern.FindString(t.text)
	if m == "" {
		return "", false
	}
	return strings.ReplaceAll(m, ",", ""), true
}

// lastPriceOn returns the last price-like substring on a line, normalized.
// Administrative lines put the money amount after the label, so the last
// occurrence is the value.
func lastPriceOn(text string) (string, bool) {
	ms := priceLikePattern.FindAllString(text, -1)
	if len(ms) == 0 {
		return "", false
	}
	return strings.ReplaceAll(ms[len(ms)-1], ",", ""), true
}

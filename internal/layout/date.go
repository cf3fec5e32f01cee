package layout

import "regexp"

// datePatterns is the ordered date vocabulary; earlier patterns win. The
// matched substring is returned verbatim, never reformatted.
var datePatterns = []*regexp.Regexp{
	// 12/31/2024, 1-5-24
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	// 2024/12/31
	regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
	// Jan 5, 2024 / January 5 2024 / Jan. 5, 2024
	regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`),
	// 5 Jan 2024
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}\b`),
}

// findDate scans built lines top to bottom, each against the full pattern
// list in priority order; the first match anywhere halts the search. When no
// line matches it falls back to the raw full-text blob. Returns "" when the
// receipt carries no recognizable date.
func findDate(lines []line, fullText string) string {
	for _, ln := range lines {
		for _, p := range datePatterns {
			if m := p.FindString(ln.text); m != "" {
				return m
			}
		}
	}
	for _, p := range datePatterns {
		if m := p.FindString(fullText); m != "" {
			return m
		}
	}
	return ""
}

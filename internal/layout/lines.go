package layout

import (
	"sort"
	"strings"
)

// yTolerance is the vertical distance, in pixels, within which a token
// still belongs to the current line.
const yTolerance = 10

// line is a geometrically clustered row of tokens. After buildLines the
// tokens are ordered left to right and text is their space-joined content.
type line struct {
	tokens []token
	text   string
	avgY   float64
}

// clusterLines groups tokens into visual rows with a single forward scan.
// Tokens must be pre-sorted by (cy, cx). A token joins the open line when
// its cy is within yTolerance of the line's running mean center; the mean
// drifts with each joined token, so a row whose centers wander gradually
// still holds together. Closed lines are never reopened.
func clusterLines(tokens []token) []line {
	var lines []line
	for _, t := range tokens {
		if len(lines) == 0 {
			lines = append(lines, line{tokens: []token{t}, avgY: t.cy})
			continue
		}
		last := &lines[len(lines)-1]
		if diff := t.cy - last.avgY; diff <= yTolerance && diff >= -yTolerance {
			last.tokens = append(last.tokens, t)
			last.avgY += (t.cy - last.avgY) / float64(len(last.tokens))
		} else {
			lines = append(lines, line{tokens: []token{t}, avgY: t.cy})
		}
	}
	return lines
}

// buildLines orders each row's tokens by minX ascending, independent of the
// clustering sort, and materializes the row text.
func buildLines(lines []line) []line {
	for i := range lines {
		sort.SliceStable(lines[i].tokens, func(a, b int) bool {
			return lines[i].tokens[a].minX < lines[i].tokens[b].minX
		})
		parts := make([]string, len(lines[i].tokens))
		for j, t := range lines[i].tokens {
			parts[j] = t.text
		}
		lines[i].text = strings.Join(parts, " ")
	}
	return lines
}

package layout

import (
	"sort"

	"github.com/scanline-labs/receipt-scanner/internal/ocr"
)

// token is one OCR text fragment reduced to an axis-aligned bounding box
// and its center. Immutable once built.
type token struct {
	text string
	minX float64
	maxX float64
	minY float64
	maxY float64
	cx   float64
	cy   float64
}

// normalizeToken collapses an annotation's polygon (0-4 vertices, missing
// coordinates already zero) into box extrema and centers. An empty vertex
// set yields a zero-extent box; degenerate but still clusterable.
func normalizeToken(ann ocr.Annotation) token {
	t := token{text: ann.Description}
	verts := ann.BoundingPoly.Vertices
	if len(verts) > 0 {
		t.minX, t.maxX = verts[0].X, verts[0].X
		t.minY, t.maxY = verts[0].Y, verts[0].Y
		for _, v := range verts[1:] {
			if v.X < t.minX {
				t.minX = v.X
			}
			if v.X > t.maxX {
				t.maxX = v.X
			}
			if v.Y < t.minY {
				t.minY = v.Y
			}
			if v.Y > t.maxY {
				t.maxY = v.Y
			}
		}
	}
	t.cx = (t.minX + t.maxX) / 2
	t.cy = (t.minY + t.maxY) / 2
	return t
}

// normalizeTokens converts annotations to tokens and sorts them by
// (cy, cx) ascending, the order line clustering depends on.
func normalizeTokens(anns []ocr.Annotation) []token {
	tokens := make([]token, 0, len(anns))
	for _, ann := range anns {
		tokens = append(tokens, normalizeToken(ann))
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].cy != tokens[j].cy {
			return tokens[i].cy < tokens[j].cy
		}
		return tokens[i].cx < tokens[j].cx
	})
	return tokens
}

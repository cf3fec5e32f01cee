// Package ocr defines the OCR result contract the extraction engine
// consumes, plus adapters that produce it: the Google Vision client and a
// decoder for saved Vision REST responses.
package ocr

import (
	"encoding/json"
	"fmt"
)

// Vertex is one polygon corner in pixel coordinates. Vision omits x or y
// when the value is at the image edge; the zero value stands in for them.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingPoly is the polygon around a recognized text fragment, at most
// four vertices.
type BoundingPoly struct {
	Vertices []Vertex `json:"vertices"`
}

// Annotation is one text annotation from the OCR service. The first
// annotation of a result spans the whole image; the rest are tokens.
type Annotation struct {
	Description  string       `json:"description"`
	BoundingPoly BoundingPoly `json:"boundingPoly"`
}

// Result is the OCR output for one image.
type Result struct {
	Annotations []Annotation `json:"textAnnotations"`
}

// FullText returns the whole-image text blob, or "" when the result is empty.
func (r *Result) FullText() string {
	if len(r.Annotations) == 0 {
		return ""
	}
	return r.Annotations[0].Description
}

// Tokens returns the per-token annotations, excluding the full-text entry.
func (r *Result) Tokens() []Annotation {
	if len(r.Annotations) <= 1 {
		return nil
	}
	return r.Annotations[1:]
}

// ResultFromJSON decodes a saved Vision REST response. The payload is
// validated against the response schema first so malformed uploads fail
// before the engine runs.
func ResultFromJSON(data []byte) (*Result, error) {
	if err := ValidateResultJSON(data); err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode ocr result: %w", err)
	}
	return &res, nil
}

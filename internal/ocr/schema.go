package ocr

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema is the accepted shape of a Vision REST response: a
// textAnnotations array where every entry carries a description and an
// optional boundingPoly with at most four vertices whose x/y may be absent.
const resultSchema = `{
  "type": "object",
  "required": ["textAnnotations"],
  "properties": {
    "textAnnotations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description"],
        "properties": {
          "description": {"type": "string"},
          "boundingPoly": {
            "type": "object",
            "properties": {
              "vertices": {
                "type": "array",
                "maxItems": 4,
                "items": {
                  "type": "object",
                  "properties": {
                    "x": {"type": "number"},
                    "y": {"type": "number"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var compiledResultSchema = jsonschema.MustCompileString("ocr-result.json", resultSchema)

// ValidateResultJSON checks a raw Vision response against the result schema.
func ValidateResultJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("ocr result is not valid JSON: %w", err)
	}
	if err := compiledResultSchema.Validate(v); err != nil {
		return fmt.Errorf("ocr result does not match schema: %w", err)
	}
	return nil
}

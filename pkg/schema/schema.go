// Package schema provides a fast-fail structural gate over the raw DAG
// description JSON (spec.md §6), run ahead of types.DecodeNodes and the
// Compiler's own validation passes. It checks only shape — is this a JSON
// object whose values are themselves objects carrying the bare minimum
// keys every node needs — leaving exact per-kind field requirements (e.g.
// op_info/next_nodes required on every node but _input/_output) to
// DecodeNodes, which already reports precisely which node and which
// fields are missing.
//
// Grounded on the teacher's pkg/executor/schema_validator.go (a
// SchemaValidatorExecutor node wrapping gojsonschema.Validate over
// arbitrary per-row data); adapted here from a per-row runtime node into a
// one-shot gate over the DAG description document itself.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// dagDescriptionSchema requires the top-level document to be a JSON
// object, and every one of its values to be an object declaring at least
// inputs, outputs, and iter_info (spec.md §4.1's universal minimum —
// op_info and next_nodes are additionally required on non-reserved nodes,
// a constraint DecodeNodes enforces since JSON Schema cannot name "every
// key except these two" without listing every node name).
const dagDescriptionSchema = `{
  "type": "object",
  "minProperties": 1,
  "patternProperties": {
    ".*": {
      "type": "object",
      "required": ["inputs", "outputs", "iter_info"],
      "properties": {
        "inputs": {"type": "array"},
        "outputs": {"type": "array"},
        "iter_info": {"type": "object"}
      }
    }
  },
  "additionalProperties": false
}`

// ValidationError reports the gojsonschema result descriptions for a
// document that failed Validate.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dag description failed schema validation: %v", e.Errors)
}

// Validate checks raw (the undecoded DAG description document) against
// dagDescriptionSchema. It returns *ValidationError on a structural
// mismatch, or a wrapped error if raw is not even valid JSON.
func Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(dagDescriptionSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	descriptions := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		descriptions = append(descriptions, e.String())
	}
	return &ValidationError{Errors: descriptions}
}

// ValidateValue is a convenience for callers already holding a decoded
// interface{} (e.g. from an upstream JSON body) rather than raw bytes.
func ValidateValue(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("schema: re-marshal document: %w", err)
	}
	return Validate(raw)
}

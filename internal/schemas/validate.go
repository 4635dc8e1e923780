// Package schemas provides JSON Schema validation for structured model
// output. The schemas are deliberately tolerant: enum coercion and field
// defaulting happen downstream, this layer only rejects output whose shape
// is beyond repair.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed job_requirements.schema.json
var jobRequirementsSchema []byte

// ValidationError reports field-level schema violations.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJobRequirements checks raw JSON against the job requirements
// schema. Returns a *ValidationError describing every violation, or an
// opaque error if the document is not valid JSON at all.
func ValidateJobRequirements(jsonBytes []byte) error {
	return validate(jobRequirementsSchema, jsonBytes)
}

func validate(schema, document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation could not run: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, resultErr := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return ve
}

package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed report.schema.json
var reportSchema string

const schemaURL = "report.schema.json"

// ValidationErrors represents a collection of schema violations
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(reportSchema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// ValidateJSON checks an encoded report against the embedded report schema.
// Schema violations are returned as ValidationErrors.
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return extractValidationErrors(validationErr)
		}
		return ValidationErrors{err}
	}
	return nil
}

// extractValidationErrors flattens a jsonschema.ValidationError tree
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if err.Message != "" && len(err.Causes) == 0 {
		errs = append(errs, fmt.Errorf("validation error at %s: %s", locationOrRoot(err.InstanceLocation), err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, extractValidationErrors(cause)...)
	}
	if len(errs) == 0 {
		errs = append(errs, fmt.Errorf("validation error at %s: %s", locationOrRoot(err.InstanceLocation), err.Message))
	}
	return errs
}

func locationOrRoot(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}

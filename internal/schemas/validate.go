// Package schemas validates generated JSON artifacts against the JSON Schema
// contracts for each stage. Schemas are embedded at compile time so validation
// works regardless of the working directory the CLI runs from.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names.
const (
	ConceptSchema  = "concept"
	CopyDeckSchema = "copy_deck"
)

// ValidationError reports schema violations with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError reports a schema that could not be loaded or parsed.
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validate checks a value against an embedded schema by name (ConceptSchema,
// CopyDeckSchema). The value is marshaled before validation, so it accepts
// both typed structs and raw maps.
func Validate(name string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document for validation: %w", err)
	}
	return ValidateBytes(name, doc)
}

// ValidateBytes checks raw JSON against an embedded schema by name.
func ValidateBytes(name string, doc []byte) error {
	schema, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return &SchemaLoadError{Name: name, Message: "unknown schema", Cause: err}
	}

	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Name: name, Message: "schema validation failed during load", Cause: err}
	}
	return resultError(result)
}

// ValidateFile checks a JSON file on disk against an embedded schema. Used by
// the CLI validate command on persisted artifacts.
func ValidateFile(name, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	doc, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	return ValidateBytes(name, doc)
}

// List returns the embedded schema names.
func List() []string {
	entries, err := schemaFiles.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".schema.json"))
	}
	return names
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

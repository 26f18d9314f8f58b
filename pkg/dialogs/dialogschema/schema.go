// Package dialogschema validates client-response payloads against a
// JSON Schema before they reach author code, wrapping
// github.com/santhosh-tekuri/jsonschema/v5.
package dialogschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema validates raw JSON against a compiled JSON Schema document. It
// implements dialogs.ResponseValidator.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document (as raw bytes)
// under the given resource name, returning a Schema ready to validate
// client responses.
func Compile(resourceName string, document []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("dialogschema: add resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("dialogschema: compile: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks raw (a JSON document) against the compiled schema.
func (s *Schema) Validate(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("dialogschema: decode response: %w", err)
	}
	if err := s.compiled.Validate(v); err != nil {
		return fmt.Errorf("dialogschema: validate: %w", err)
	}
	return nil
}

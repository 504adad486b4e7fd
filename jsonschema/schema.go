// Package jsonschema holds a minimal JSON Schema model that schemas export
// themselves into, for editor integration and generated documentation.
package jsonschema

import (
	json "github.com/goccy/go-json"

	"github.com/gvx/kyss"
)

// Schema is a minimal JSON Schema document. Only the vocabulary the
// exporters emit is modeled.
type Schema struct {
	// Core
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Schemer is implemented by schemas that can describe themselves.
type Schemer interface {
	JSONSchema() (*Schema, error)
}

// Export returns the JSON Schema for s. A schema that cannot describe
// itself exports as the empty schema, which accepts any value.
func Export(s kyss.Schema) (*Schema, error) {
	if sc, ok := s.(Schemer); ok {
		return sc.JSONSchema()
	}
	return &Schema{}, nil
}

// Marshal renders s as compact JSON.
func Marshal(s *Schema) ([]byte, error) {
	return json.Marshal(s)
}

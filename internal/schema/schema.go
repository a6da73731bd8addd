// Package schema provides JSON Schema parsing and validation of configuration
// documents against a practical subset of the standard.
package schema

import (
	"encoding/json"
	"fmt"
)

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	// Try array of strings
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the primary (first) type, or empty string if none
func (st SchemaType) Primary() string {
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// Allows reports whether the given type name is one of the allowed types.
// "integer" values also satisfy "number".
func (st SchemaType) Allows(name string) bool {
	for _, t := range st.Types {
		if t == name {
			return true
		}
		if t == "number" && name == "integer" {
			return true
		}
	}
	return false
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	for _, t := range st.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// AdditionalProperties handles JSON Schema additionalProperties which can be bool or Schema
type AdditionalProperties struct {
	Allowed bool    // If true, any additional properties allowed; if false, none allowed
	Schema  *Schema // If set, additional properties must match this schema
}

// UnmarshalJSON handles both boolean and schema forms
func (ap *AdditionalProperties) UnmarshalJSON(data []byte) error {
	// Try boolean first
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		ap.Allowed = b
		ap.Schema = nil
		return nil
	}

	// Try schema
	var s Schema
	if err := json.Unmarshal(data, &s); err == nil {
		ap.Allowed = true
		ap.Schema = &s
		return nil
	}

	return fmt.Errorf("additionalProperties must be boolean or schema")
}

// Schema represents a JSON Schema document
type Schema struct {
	// Meta
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Type - can be string or array of strings in JSON Schema
	Type SchemaType `json:"type,omitempty"`

	// Object properties
	Properties           map[string]*Schema    `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties,omitempty"`

	// Array items
	Items *Schema `json:"items,omitempty"`

	// String constraints
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Numeric constraints
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Array constraints
	MinItems    *int `json:"minItems,omitempty"`
	MaxItems    *int `json:"maxItems,omitempty"`
	UniqueItems bool `json:"uniqueItems,omitempty"`

	// Enum
	Enum []interface{} `json:"enum,omitempty"`

	// Composition (basic support)
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	// Definitions for $ref resolution
	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"` // JSON Schema draft 2019-09+
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

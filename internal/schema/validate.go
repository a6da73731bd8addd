package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	apperrors "github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/models"
)

// Validator checks configuration documents against a schema.
type Validator struct {
	schema      *Schema
	definitions map[string]*Schema
}

// NewValidator creates a new Validator for the given schema
func NewValidator(schema *Schema) *Validator {
	// Merge definitions and $defs
	definitions := make(map[string]*Schema)
	for k, v := range schema.Definitions {
		definitions[k] = v
	}
	for k, v := range schema.Defs {
		definitions[k] = v
	}

	return &Validator{
		schema:      schema,
		definitions: definitions,
	}
}

// Validate walks the document against the schema and returns the first
// violation found, located by its document path.
func (v *Validator) Validate(doc models.JSONValue) error {
	if err := v.validateValue(v.schema, doc, ""); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return nil
}

func (v *Validator) validateValue(schema *Schema, value models.JSONValue, path string) error {
	if schema == nil {
		return nil
	}

	// Handle $ref
	if schema.Ref != "" {
		resolved, err := v.resolveRef(schema.Ref)
		if err != nil {
			return err
		}
		return v.validateValue(resolved, value, path)
	}

	// Composition
	for i, sub := range schema.AllOf {
		if err := v.validateValue(sub, value, path); err != nil {
			return fmt.Errorf("%s (allOf[%d])", err, i)
		}
	}
	if len(schema.AnyOf) > 0 {
		matched := false
		for _, sub := range schema.AnyOf {
			if v.validateValue(sub, value, path) == nil {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("%s: value matches none of the allowed schemas", displayPath(path))
		}
	}
	if len(schema.OneOf) > 0 {
		matches := 0
		for _, sub := range schema.OneOf {
			if v.validateValue(sub, value, path) == nil {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("%s: value matches %d schemas, expected exactly one", displayPath(path), matches)
		}
	}

	kind := kindOf(value)
	if len(schema.Type.Types) > 0 && !schema.Type.Allows(kind) {
		return fmt.Errorf("%s: expected %s, got %s",
			displayPath(path), strings.Join(schema.Type.Types, " or "), kind)
	}

	if len(schema.Enum) > 0 {
		if !enumContains(schema.Enum, value) {
			return fmt.Errorf("%s: value %s is not one of the allowed values",
				displayPath(path), renderScalar(value))
		}
	}

	switch kind {
	case "object":
		return v.validateObject(schema, value.(models.JSONObject), path)
	case "array":
		return v.validateArray(schema, value.(models.JSONArray), path)
	case "string":
		return validateString(schema, value.(string), path)
	case "number", "integer":
		return validateNumber(schema, value.(json.Number), path)
	}
	return nil
}

func (v *Validator) validateObject(schema *Schema, obj models.JSONObject, path string) error {
	for _, required := range schema.Required {
		if _, ok := obj[required]; !ok {
			return fmt.Errorf("%s: missing required property %q", displayPath(path), required)
		}
	}

	for key, value := range obj {
		childPath := key
		if path != "" {
			childPath = path + "." + key
		}
		if propSchema, ok := schema.Properties[key]; ok {
			if err := v.validateValue(propSchema, value, childPath); err != nil {
				return err
			}
			continue
		}
		if schema.AdditionalProperties != nil {
			if !schema.AdditionalProperties.Allowed {
				return fmt.Errorf("%s: property %q is not allowed here", displayPath(path), key)
			}
			if schema.AdditionalProperties.Schema != nil {
				if err := v.validateValue(schema.AdditionalProperties.Schema, value, childPath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *Validator) validateArray(schema *Schema, arr models.JSONArray, path string) error {
	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		return fmt.Errorf("%s: array has %d items, minimum is %d", displayPath(path), len(arr), *schema.MinItems)
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		return fmt.Errorf("%s: array has %d items, maximum is %d", displayPath(path), len(arr), *schema.MaxItems)
	}
	if schema.UniqueItems {
		seen := make(map[string]struct{}, len(arr))
		for i, item := range arr {
			key := renderScalar(item)
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%s: items must be unique, duplicate at index %d", displayPath(path), i)
			}
			seen[key] = struct{}{}
		}
	}
	if schema.Items != nil {
		for i, item := range arr {
			if err := v.validateValue(schema.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateString(schema *Schema, s string, path string) error {
	if schema.MinLength != nil && len(s) < *schema.MinLength {
		return fmt.Errorf("%s: string is shorter than %d characters", displayPath(path), *schema.MinLength)
	}
	if schema.MaxLength != nil && len(s) > *schema.MaxLength {
		return fmt.Errorf("%s: string is longer than %d characters", displayPath(path), *schema.MaxLength)
	}
	if schema.Pattern != "" {
		re, err := regexp.Compile(schema.Pattern)
		if err != nil {
			return fmt.Errorf("%s: invalid pattern %q in schema: %w", displayPath(path), schema.Pattern, err)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("%s: value %q does not match pattern %q", displayPath(path), s, schema.Pattern)
		}
	}
	return nil
}

func validateNumber(schema *Schema, n json.Number, path string) error {
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("%s: %q is not a representable number", displayPath(path), n.String())
	}
	if schema.Minimum != nil && f < *schema.Minimum {
		return fmt.Errorf("%s: %s is below the minimum %v", displayPath(path), n.String(), *schema.Minimum)
	}
	if schema.Maximum != nil && f > *schema.Maximum {
		return fmt.Errorf("%s: %s is above the maximum %v", displayPath(path), n.String(), *schema.Maximum)
	}
	if schema.ExclusiveMinimum != nil && f <= *schema.ExclusiveMinimum {
		return fmt.Errorf("%s: %s must be greater than %v", displayPath(path), n.String(), *schema.ExclusiveMinimum)
	}
	if schema.ExclusiveMaximum != nil && f >= *schema.ExclusiveMaximum {
		return fmt.Errorf("%s: %s must be less than %v", displayPath(path), n.String(), *schema.ExclusiveMaximum)
	}
	if schema.MultipleOf != nil && *schema.MultipleOf != 0 {
		quotient := f / *schema.MultipleOf
		if quotient != math.Trunc(quotient) {
			return fmt.Errorf("%s: %s is not a multiple of %v", displayPath(path), n.String(), *schema.MultipleOf)
		}
	}
	return nil
}

// resolveRef resolves local references of the form #/definitions/Name or
// #/$defs/Name.
func (v *Validator) resolveRef(ref string) (*Schema, error) {
	name := ref
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if strings.HasPrefix(ref, prefix) {
			name = strings.TrimPrefix(ref, prefix)
			break
		}
	}
	if schema, ok := v.definitions[name]; ok {
		return schema, nil
	}
	return nil, fmt.Errorf("unresolvable schema reference %q", ref)
}

// kindOf classifies a document value as one of the closed set of JSON kinds.
func kindOf(value models.JSONValue) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case models.JSONArray:
		return "array"
	case models.JSONObject:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// enumContains reports membership by comparing canonical JSON renderings, so
// json.Number values compare equal to the float64 literals the schema decoder
// produces.
func enumContains(enum []interface{}, value models.JSONValue) bool {
	want := renderScalar(value)
	for _, candidate := range enum {
		if renderScalar(candidate) == want {
			return true
		}
	}
	return false
}

func renderScalar(value interface{}) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(raw)
}

func displayPath(path string) string {
	if path == "" {
		return "(document root)"
	}
	return path
}

// Package normalize converts raw textual values into typed JSON values before
// they are written into a configuration document. A fixed registry of
// well-known keys demands strict primitive types; everything else goes through
// lenient JSON parsing with a plain-string fallback.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/tidwall/jsonc"

	"github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/models"
)

// Kind is the scalar type a registered configuration key requires.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
)

// typedPaths maps full path strings to the scalar kind their values must
// have. These are tool-level settings where a loosely-typed value would
// corrupt behavior; lookups are exact full-path matches only.
var typedPaths = map[string]Kind{
	"cli.warnings.versionMismatch": KindBoolean,
	"cli.warnings.zoneless":        KindBoolean,
	"cli.defaultCollection":        KindString,
	"cli.packageManager":           KindString,
	"cli.completion.prompted":      KindBoolean,
	"cli.cache.enabled":            KindBoolean,
	"cli.cache.environment":        KindString,
	"cli.cache.path":               KindString,
	"cli.analytics.retries":        KindNumber,
}

// RequiredKind reports the registered kind for a path, if any.
func RequiredKind(path string) (Kind, bool) {
	kind, ok := typedPaths[path]
	return kind, ok
}

// CanonicalPath folds kebab-case segment names to the registry's camelCase
// spelling, but only when the folded path actually hits the registry. Paths
// into free-form subtrees are left exactly as typed.
func CanonicalPath(path string) string {
	if _, ok := typedPaths[path]; ok {
		return path
	}
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if strings.IndexByte(segment, '[') == -1 {
			segments[i] = strcase.ToLowerCamel(segment)
		}
	}
	folded := strings.Join(segments, ".")
	if _, ok := typedPaths[folded]; ok {
		return folded
	}
	return path
}

// Value converts a raw string argument into the JSON value to insert at path.
// Registered paths are coerced strictly to their required kind. Unregistered
// paths get a lenient JSON parse (comments and trailing commas tolerated), and
// input that fails to parse is kept as a plain string unless it looks like a
// malformed container literal.
func Value(raw string, path string) (models.JSONValue, error) {
	kind, ok := typedPaths[path]
	if !ok {
		return parseFreeForm(raw)
	}

	switch kind {
	case KindBoolean:
		switch strings.TrimSpace(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, errors.NewValueError(
			fmt.Sprintf("%q requires a boolean value, got %q", path, raw),
			errors.ErrInvalidValueForType,
		)

	case KindNumber:
		trimmed := strings.TrimSpace(raw)
		f, err := strconv.ParseFloat(trimmed, 64)
		// ParseFloat is laxer than the JSON grammar ("+5", "5.", "0x1p2");
		// the literal is stored verbatim, so it must also be valid JSON.
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || !json.Valid([]byte(trimmed)) {
			return nil, errors.NewValueError(
				fmt.Sprintf("%q requires a numeric value, got %q", path, raw),
				errors.ErrInvalidValueForType,
			)
		}
		return json.Number(trimmed), nil

	default: // KindString
		return raw, nil
	}
}

// parseFreeForm attempts a lenient JSON parse of raw, falling back to the
// plain string for input that was never meant to be JSON ("dark", "foo-bar").
// Input opening a container literal ({ or [) that still fails to parse is
// reported as a JSON error rather than silently stored as text.
func parseFreeForm(raw string) (models.JSONValue, error) {
	decoder := json.NewDecoder(strings.NewReader(string(jsonc.ToJSON([]byte(raw)))))
	decoder.UseNumber()

	var value models.JSONValue
	if err := decoder.Decode(&value); err != nil {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return nil, errors.NewParsingError(
				fmt.Sprintf("value %q looks like JSON but cannot be parsed", raw),
				errors.ErrInvalidJSON,
			)
		}
		return raw, nil
	}
	if decoder.More() {
		// "not-json-but-plain" decodes its leading token; trailing data means
		// the input as a whole was not a single JSON value.
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return nil, errors.NewParsingError(
				fmt.Sprintf("value %q contains trailing data after the first JSON value", raw),
				errors.ErrInvalidJSON,
			)
		}
		return raw, nil
	}

	return normalizeValue(value), nil
}

// normalizeValue converts raw decoded types into our model types.
func normalizeValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeValue(value)
		}
		return arr
	default:
		return v
	}
}

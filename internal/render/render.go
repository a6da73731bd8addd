// Package render formats configuration values for terminal output.
package render

import (
	"encoding/json"

	"github.com/tidwall/pretty"

	"github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/models"
)

// Options controls rendering.
type Options struct {
	// JSON forces JSON output even for bare scalars, so strings come out
	// quoted and machine-parseable.
	JSON bool
	// Compact disables indentation for containers.
	Compact bool
}

// Value renders a document value as text. Scalars print bare by default
// (strings unquoted, numbers and booleans verbatim, null as empty); objects
// and arrays always print as JSON.
func Value(v models.JSONValue, opts Options) (string, error) {
	if !opts.JSON {
		switch s := v.(type) {
		case nil:
			return "", nil
		case string:
			return s, nil
		case bool:
			if s {
				return "true", nil
			}
			return "false", nil
		case json.Number:
			return s.String(), nil
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.NewOutputError("failed to serialize value", err)
	}
	if opts.Compact {
		return string(pretty.Ugly(raw)), nil
	}
	return string(pretty.PrettyOptions(raw, &pretty.Options{Indent: "  ", SortKeys: true})), nil
}

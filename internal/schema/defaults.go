package schema

// workspaceSchema is the built-in schema for confpath workspace files. The
// cli subtree is strict about its well-known keys; schematics and projects
// are free-form by design.
const workspaceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema",
  "title": "confpath workspace",
  "type": "object",
  "properties": {
    "version": { "type": "integer", "minimum": 1 },
    "cli": {
      "type": "object",
      "properties": {
        "defaultCollection": { "type": "string" },
        "packageManager": {
          "type": "string",
          "enum": ["npm", "yarn", "pnpm", "cnpm", "bun"]
        },
        "warnings": {
          "type": "object",
          "additionalProperties": { "type": "boolean" }
        },
        "analytics": {
          "type": "object",
          "properties": {
            "retries": { "type": "number", "minimum": 0 }
          }
        },
        "analyticsSharing": {
          "type": "object",
          "properties": {
            "tracking": { "type": "string" },
            "uuid": { "type": "string" }
          }
        },
        "cache": {
          "type": "object",
          "properties": {
            "enabled": { "type": "boolean" },
            "environment": {
              "type": "string",
              "enum": ["local", "ci", "all"]
            },
            "path": { "type": "string" }
          }
        },
        "completion": {
          "type": "object",
          "properties": {
            "prompted": { "type": "boolean" }
          }
        }
      }
    },
    "schematics": { "type": "object" },
    "projects": { "type": "object" }
  }
}`

// DefaultValidator returns a validator for the built-in workspace schema.
func DefaultValidator() *Validator {
	schema, err := ParseString(workspaceSchema)
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a bug.
		panic(err)
	}
	return NewValidator(schema)
}

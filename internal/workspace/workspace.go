// Package workspace locates, loads, and persists the configuration document
// for a scope. The on-disk format is strict JSON; comments (JSONC) are
// tolerated on read and lost on write, since any write rewrites the whole
// file.
package workspace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	stderrors "errors"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"

	"github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/models"
)

// Scope selects which configuration file an operation targets.
type Scope string

const (
	// ScopeLocal is the workspace file in the current directory or the
	// nearest ancestor that has one.
	ScopeLocal Scope = "local"
	// ScopeGlobal is the per-user file under the confpath home directory.
	ScopeGlobal Scope = "global"
)

// File names probed in each candidate directory, in preference order.
var fileNames = []string{"confpath.json", "confpath.jsonc"}

// HomeEnv overrides the global configuration directory when set.
const HomeEnv = "CONFPATH_HOME"

// Workspace is a loaded configuration document together with the file it came
// from. The document root is always a JSON object.
type Workspace struct {
	Document models.JSONValue
	Path     string

	fs afero.Fs
}

// Resolve returns the configuration file path for a scope. For the local
// scope the search starts in dir and walks up the directory tree; for the
// global scope the confpath home directory is probed. A missing file is
// reported with ErrFileNotFound.
func Resolve(fs afero.Fs, scope Scope, dir string) (string, error) {
	if scope == ScopeGlobal {
		home, err := globalDir()
		if err != nil {
			return "", errors.NewInputError("cannot determine the global configuration directory", err)
		}
		if path, ok := probe(fs, home); ok {
			return path, nil
		}
		return "", errors.NewInputError(
			fmt.Sprintf("no configuration file in %s", home),
			errors.ErrFileNotFound,
		)
	}

	current := dir
	for {
		if path, ok := probe(fs, current); ok {
			return path, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", errors.NewInputError(
		fmt.Sprintf("no configuration file found in %s or any parent directory", dir),
		errors.ErrFileNotFound,
	)
}

// GlobalPath returns the path the global configuration file would have,
// whether or not it exists yet.
func GlobalPath() (string, error) {
	home, err := globalDir()
	if err != nil {
		return "", errors.NewInputError("cannot determine the global configuration directory", err)
	}
	return filepath.Join(home, fileNames[0]), nil
}

func globalDir() (string, error) {
	if custom := os.Getenv(HomeEnv); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "confpath"), nil
}

func probe(fs afero.Fs, dir string) (string, bool) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if info, err := fs.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load resolves and reads the configuration document for a scope.
func Load(fs afero.Fs, scope Scope, dir string) (*Workspace, error) {
	path, err := Resolve(fs, scope, dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(fs, path)
}

// LoadFile reads a configuration document from a specific file.
func LoadFile(fs afero.Fs, path string) (*Workspace, error) {
	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", path),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", path), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("configuration file '%s' is empty", path),
			errors.ErrFileEmpty,
		)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	return &Workspace{Document: doc, Path: path, fs: fs}, nil
}

// New creates an in-memory workspace with an empty object document, backed by
// path once saved. Used when a set targets a global file that does not exist
// yet.
func New(fs afero.Fs, path string) *Workspace {
	return &Workspace{Document: models.JSONObject{}, Path: path, fs: fs}
}

// decodeDocument strips JSONC comments, decodes strict JSON with numbers kept
// as json.Number, and normalizes the result into the model types. The root
// must be an object.
func decodeDocument(data []byte) (models.JSONValue, error) {
	decoder := json.NewDecoder(strings.NewReader(string(jsonc.ToJSON(data))))
	decoder.UseNumber()

	var root models.JSONValue
	if err := decoder.Decode(&root); err != nil {
		// Truncated documents surface as io.ErrUnexpectedEOF rather than a
		// *json.SyntaxError; both are malformed JSON to the caller.
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return nil, errors.NewParsingError(
			fmt.Sprintf("failed to decode configuration: %v", err),
			errors.ErrInvalidJSON,
		)
	}
	if decoder.More() {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrInvalidJSON)
	}

	root = normalizeJSONValue(root)
	if _, ok := root.(models.JSONObject); !ok {
		return nil, errors.NewParsingError("top-level value is not an object", errors.ErrNotAnObject)
	}
	return root, nil
}

// normalizeJSONValue converts raw decoded types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v
	}
}

// Save serializes the document as pretty-printed strict JSON and replaces the
// backing file. The write goes through a temp file in the same directory so a
// failure partway leaves the original untouched.
func (w *Workspace) Save() error {
	raw, err := json.Marshal(w.Document)
	if err != nil {
		return errors.NewOutputError("failed to serialize configuration", err)
	}
	formatted := pretty.PrettyOptions(raw, &pretty.Options{Indent: "  ", SortKeys: true})

	dir := filepath.Dir(w.Path)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", dir), err)
	}

	tmp := w.Path + ".tmp"
	if err := afero.WriteFile(w.fs, tmp, formatted, 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write '%s'", tmp), err)
	}
	if err := w.fs.Rename(tmp, w.Path); err != nil {
		_ = w.fs.Remove(tmp)
		return errors.NewOutputError(fmt.Sprintf("failed to replace '%s'", w.Path), err)
	}
	return nil
}

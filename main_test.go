package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/settings"
	"github.com/cmunro/confpath/internal/workspace"
)

func newTestApp(t *testing.T, content string) (*App, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	if content != "" {
		require.NoError(t, afero.WriteFile(fs, "/work/confpath.json", []byte(content), 0o644))
	}

	out := &bytes.Buffer{}
	return &App{
		Fs:       fs,
		Stdout:   out,
		WorkDir:  "/work",
		Settings: settings.NewSettings(),
	}, out
}

func TestGet_ScalarValue(t *testing.T) {
	app, out := newTestApp(t, `{"cli": {"packageManager": "npm"}}`)

	cmd := &GetCmd{Path: "cli.packageManager"}
	require.NoError(t, cmd.Run(app, &Globals{}))
	assert.Equal(t, "npm\n", out.String())
}

func TestGet_WholeDocumentForEmptyPath(t *testing.T) {
	app, out := newTestApp(t, `{"version": 1}`)

	cmd := &GetCmd{}
	require.NoError(t, cmd.Run(app, &Globals{Compact: true}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, float64(1), decoded["version"])
}

func TestGet_ArrayElement(t *testing.T) {
	app, out := newTestApp(t, `{"targets": ["build", "test", "lint"]}`)

	cmd := &GetCmd{Path: "targets[1]"}
	require.NoError(t, cmd.Run(app, &Globals{}))
	assert.Equal(t, "test\n", out.String())
}

func TestGet_NotFound(t *testing.T) {
	app, _ := newTestApp(t, `{"cli": {}}`)

	cmd := &GetCmd{Path: "cli.missing"}
	err := cmd.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrValueNotFound)
}

func TestGet_InvalidPath(t *testing.T) {
	app, _ := newTestApp(t, `{"cli": {}}`)

	cmd := &GetCmd{Path: "cli[x]"}
	err := cmd.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}

func TestGet_KebabAliasForRegisteredKey(t *testing.T) {
	app, out := newTestApp(t, `{"cli": {"packageManager": "pnpm"}}`)

	cmd := &GetCmd{Path: "cli.package-manager"}
	require.NoError(t, cmd.Run(app, &Globals{}))
	assert.Equal(t, "pnpm\n", out.String())
}

func TestSet_WriteThenReadRoundTrips(t *testing.T) {
	app, out := newTestApp(t, `{"cli": {"packageManager": "npm"}}`)

	set := &SetCmd{Path: "cli.packageManager", Value: "yarn"}
	require.NoError(t, set.Run(app, &Globals{}))

	get := &GetCmd{Path: "cli.packageManager"}
	require.NoError(t, get.Run(app, &Globals{}))
	assert.Equal(t, "yarn\n", out.String())
}

func TestSet_CreatesIntermediateStructure(t *testing.T) {
	app, _ := newTestApp(t, `{}`)

	set := &SetCmd{Path: "schematics.collection.opts.style", Value: "scss"}
	require.NoError(t, set.Run(app, &Globals{}))

	ws, err := workspace.Load(app.Fs, workspace.ScopeLocal, "/work")
	require.NoError(t, err)

	data, err := afero.ReadFile(app.Fs, ws.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"style": "scss"`)
}

func TestSet_TypedCoercion(t *testing.T) {
	app, out := newTestApp(t, `{"cli": {}}`)

	set := &SetCmd{Path: "cli.warnings.versionMismatch", Value: "false"}
	require.NoError(t, set.Run(app, &Globals{}))

	get := &GetCmd{Path: "cli.warnings.versionMismatch"}
	require.NoError(t, get.Run(app, &Globals{JSON: true, Compact: true}))
	assert.Equal(t, "false\n", out.String())
}

func TestSet_TypedCoercionFailure(t *testing.T) {
	app, _ := newTestApp(t, `{"cli": {}}`)

	set := &SetCmd{Path: "cli.warnings.versionMismatch", Value: "maybe"}
	err := set.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrInvalidValueForType)

	// Nothing was persisted.
	data, err := afero.ReadFile(app.Fs, "/work/confpath.json")
	require.NoError(t, err)
	assert.Equal(t, `{"cli": {}}`, string(data))
}

func TestSet_ValidationFailureLeavesFileUntouched(t *testing.T) {
	original := `{"cli": {"packageManager": "npm"}}`
	app, _ := newTestApp(t, original)

	// "maven" is a string, so coercion passes, but the workspace schema
	// rejects it.
	set := &SetCmd{Path: "cli.packageManager", Value: "maven"}
	err := set.Run(app, &Globals{})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)

	data, readErr := afero.ReadFile(app.Fs, "/work/confpath.json")
	require.NoError(t, readErr)
	assert.Equal(t, original, string(data))
}

func TestSet_ScalarInTheWay(t *testing.T) {
	app, _ := newTestApp(t, `{"schematics": {"a": 1}}`)

	set := &SetCmd{Path: "schematics.a.b", Value: "5"}
	err := set.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrValueNotFound)
}

func TestSet_EmptyPathRejected(t *testing.T) {
	app, _ := newTestApp(t, `{}`)

	set := &SetCmd{Path: "", Value: "5"}
	err := set.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrEmptyPath)

	// Paths that collapse to zero steps count as empty too.
	set = &SetCmd{Path: "...", Value: "5"}
	err = set.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrEmptyPath)
}

func TestSet_FreeFormJSONValue(t *testing.T) {
	app, out := newTestApp(t, `{}`)

	set := &SetCmd{Path: "schematics.budgets", Value: `[{"type": "initial", "maximumWarning": "2mb"}]`}
	require.NoError(t, set.Run(app, &Globals{}))

	get := &GetCmd{Path: "schematics.budgets[0].maximumWarning"}
	require.NoError(t, get.Run(app, &Globals{}))
	assert.Equal(t, "2mb\n", out.String())
}

func TestSet_GlobalScopeCreatesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	home := "/home/user/.config/confpath"
	t.Setenv(workspace.HomeEnv, home)

	app := &App{
		Fs:       fs,
		Stdout:   &bytes.Buffer{},
		WorkDir:  "/anywhere",
		Settings: settings.NewSettings(),
	}

	set := &SetCmd{Path: "cli.completion.prompted", Value: "true"}
	require.NoError(t, set.Run(app, &Globals{Global: true}))

	data, err := afero.ReadFile(fs, home+"/confpath.json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"prompted": true`))
}

func TestGet_MissingWorkspace(t *testing.T) {
	app, _ := newTestApp(t, "")

	cmd := &GetCmd{Path: "cli"}
	err := cmd.Run(app, &Globals{})
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

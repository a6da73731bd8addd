package main

import (
	"fmt"
	"io"
	"os"

	stderrors "errors" // Standard errors package

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/cmunro/confpath/internal/accessor"
	"github.com/cmunro/confpath/internal/errors"
	"github.com/cmunro/confpath/internal/logging"
	"github.com/cmunro/confpath/internal/normalize"
	"github.com/cmunro/confpath/internal/pathparse"
	"github.com/cmunro/confpath/internal/render"
	"github.com/cmunro/confpath/internal/schema"
	"github.com/cmunro/confpath/internal/settings"
	"github.com/cmunro/confpath/internal/workspace"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are flags shared by every command
type Globals struct {
	Global  bool             `help:"Operate on the user-level configuration instead of the workspace." short:"g"`
	JSON    bool             `help:"Print values as JSON." short:"j"`
	Compact bool             `help:"Print containers without indentation."`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
var CLI struct {
	Globals

	Get GetCmd `cmd:"" help:"Print the value at a configuration path."`
	Set SetCmd `cmd:"" help:"Set the value at a configuration path and write the file back."`
}

// App holds the runtime context commands run against
type App struct {
	Fs       afero.Fs
	Stdout   io.Writer
	WorkDir  string
	Settings *settings.Settings
}

// GetCmd reads a value by path. With no path it prints the whole document.
type GetCmd struct {
	Path string `arg:"" optional:"" help:"Configuration path, e.g. cli.packageManager or projects[0].root."`
}

func (c *GetCmd) Run(app *App, globals *Globals) error {
	ws, err := loadWorkspace(app, globals)
	if err != nil {
		return err
	}

	path := normalize.CanonicalPath(c.Path)
	steps, err := pathparse.Parse(path)
	if err != nil {
		return err
	}

	value, ok := accessor.Get(ws.Document, steps)
	if !ok {
		return errors.NewLookupError(
			fmt.Sprintf("no value at path %q in %s", c.Path, ws.Path),
			errors.ErrValueNotFound,
		)
	}

	out, err := render.Value(value, renderOptions(app, globals))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.Stdout, out)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// SetCmd writes a value by path: normalize, assign, validate, persist. Any
// stage failing leaves the on-disk file untouched.
type SetCmd struct {
	Path  string `arg:"" help:"Configuration path, e.g. cli.packageManager or projects[0].root."`
	Value string `arg:"" help:"New value. Well-known keys are coerced to their required type; anything else is parsed as lenient JSON."`
}

func (c *SetCmd) Run(app *App, globals *Globals) error {
	path := normalize.CanonicalPath(c.Path)
	steps, err := pathparse.Parse(path)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return errors.NewPathError("cannot set the document root", errors.ErrEmptyPath)
	}

	value, err := normalize.Value(c.Value, path)
	if err != nil {
		return err
	}

	ws, err := loadWorkspaceForWrite(app, globals)
	if err != nil {
		return err
	}

	newRoot, ok := accessor.Set(ws.Document, steps, value)
	if !ok {
		return errors.NewLookupError(
			fmt.Sprintf("cannot set value at path %q in %s", c.Path, ws.Path),
			errors.ErrValueNotFound,
		)
	}

	if err := schema.DefaultValidator().Validate(newRoot); err != nil {
		return err
	}

	ws.Document = newRoot
	if err := ws.Save(); err != nil {
		return err
	}

	logging.Logger.Debug().
		Str("path", path).
		Str("file", ws.Path).
		Msg("configuration updated")
	return nil
}

func scopeFor(app *App, globals *Globals) workspace.Scope {
	if globals.Global || app.Settings.Scope == "global" {
		return workspace.ScopeGlobal
	}
	return workspace.ScopeLocal
}

func loadWorkspace(app *App, globals *Globals) (*workspace.Workspace, error) {
	return workspace.Load(app.Fs, scopeFor(app, globals), app.WorkDir)
}

// loadWorkspaceForWrite is loadWorkspace, except a missing global file starts
// out as an empty document at its default location.
func loadWorkspaceForWrite(app *App, globals *Globals) (*workspace.Workspace, error) {
	scope := scopeFor(app, globals)
	ws, err := workspace.Load(app.Fs, scope, app.WorkDir)
	if err != nil && scope == workspace.ScopeGlobal && stderrors.Is(err, errors.ErrFileNotFound) {
		path, pathErr := workspace.GlobalPath()
		if pathErr != nil {
			return nil, pathErr
		}
		return workspace.New(app.Fs, path), nil
	}
	return ws, err
}

func renderOptions(app *App, globals *Globals) render.Options {
	return render.Options{
		JSON:    globals.JSON || app.Settings.Output.JSON,
		Compact: globals.Compact || app.Settings.Output.Compact,
	}
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("confpath"),
		kong.Description("Read and write values in a JSON configuration file by path"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("confpath version %s", Version)},
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	tool := settings.LoadOrDefault()

	level := logging.ParseLevel(tool.LogLevel)
	if CLI.Debug {
		level = zerolog.DebugLevel
	}
	logging.Init(logging.Config{Level: level, Pretty: true})

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	app := &App{
		Fs:       afero.NewOsFs(),
		Stdout:   os.Stdout,
		WorkDir:  workDir,
		Settings: tool,
	}

	if err := ctx.Run(app, &CLI.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

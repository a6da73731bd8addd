// Package settings loads confpath's own defaults file. This is the tool's
// configuration, distinct from the workspace documents it edits.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings represents the complete configuration for confpath itself
type Settings struct {
	// Scope is the default scope when --global is not given: "local" or "global".
	Scope string `yaml:"scope"`
	// LogLevel is the minimum level logged to stderr.
	LogLevel string `yaml:"log_level"`
	Output   Output `yaml:"output"`
}

// Output controls how values are printed
type Output struct {
	// JSON prints all values as JSON instead of bare scalars.
	JSON bool `yaml:"json"`
	// Compact disables indentation for printed containers.
	Compact bool `yaml:"compact"`
}

// NewSettings creates Settings with default values
func NewSettings() *Settings {
	return &Settings{
		Scope:    "local",
		LogLevel: "warn",
		Output: Output{
			JSON:    false,
			Compact: false,
		},
	}
}

// Load loads settings from a YAML file
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	// Start with defaults
	s := NewSettings()

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	if s.Scope != "local" && s.Scope != "global" {
		return nil, fmt.Errorf("invalid scope %q in settings file (want local or global)", s.Scope)
	}

	return s, nil
}

// FindSettingsFile searches for a settings file in current directory and parents
func FindSettingsFile() string {
	settingsNames := []string{".confpath.yml", ".confpath.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range settingsNames {
			settingsPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(settingsPath); err == nil {
				return settingsPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadOrDefault loads the nearest settings file, or returns defaults when
// none exists or the file cannot be used.
func LoadOrDefault() *Settings {
	path := FindSettingsFile()
	if path == "" {
		return NewSettings()
	}
	s, err := Load(path)
	if err != nil {
		return NewSettings()
	}
	return s
}

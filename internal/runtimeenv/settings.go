package runtimeenv

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the name of the engine settings asset inside the runtime
// directory.
const SettingsFile = "engine.yaml"

const defaultBusyTimeout = 5000

// Settings are the session settings the engine applies on every attach.
type Settings struct {
	// BusyTimeout is how long, in milliseconds, a session waits on a
	// locked database file before failing.
	BusyTimeout int `yaml:"busy_timeout"`
	// Pragmas run in order right after a session is opened.
	Pragmas []string `yaml:"pragmas"`
}

// LoadSettings reads SettingsFile from root.
func LoadSettings(root string) (Settings, error) {
	b, err := os.ReadFile(filepath.Join(root, SettingsFile))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read engine settings: %w", err)
	}

	settings := Settings{BusyTimeout: defaultBusyTimeout}
	if err := yaml.Unmarshal(b, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse engine settings: %w", err)
	}
	if settings.BusyTimeout < 0 {
		return Settings{}, fmt.Errorf(
			"invalid busy_timeout %d, must not be negative", settings.BusyTimeout,
		)
	}

	return settings, nil
}

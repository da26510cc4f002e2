package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings tunes the popup widget. Unlike the credential store, a missing
// settings file is fine: defaults apply.
type Settings struct {
	// DismissAfterSeconds closes the popup after this many seconds of
	// inactivity. Zero or negative disables auto-dismiss.
	DismissAfterSeconds int `json:"dismiss_after_seconds"`
	// Width forces a render width instead of the terminal's. Zero means
	// use whatever the terminal reports.
	Width int `json:"width"`
}

func DefaultSettings() Settings {
	return Settings{DismissAfterSeconds: 45}
}

func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func LoadSettings() (Settings, error) {
	return LoadSettingsFrom(SettingsPath())
}

func LoadSettingsFrom(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

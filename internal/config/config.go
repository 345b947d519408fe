package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Port      int
	DataDir   string
	ModelsDir string
	Version   string
}

// Settings are the persisted user preferences, stored in the platform
// config directory so they survive restarts.
type Settings struct {
	DataDir   string `json:"data_dir,omitempty"`
	ModelsDir string `json:"models_dir,omitempty"`
}

// settingsPath returns the path of the settings file, creating its
// directory if needed.
func settingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	dir := filepath.Join(configDir, "polymer-predictor")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return filepath.Join(dir, "settings.json"), nil
}

// LoadSettings reads the persisted settings. A missing file is not an
// error; it returns empty settings.
func LoadSettings() (Settings, error) {
	var settings Settings
	path, err := settingsPath()
	if err != nil {
		return settings, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("could not read settings: %w", err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("could not parse settings: %w", err)
	}
	return settings, nil
}

// SaveSettings writes the settings to the config directory.
func SaveSettings(settings Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write settings: %w", err)
	}
	return nil
}

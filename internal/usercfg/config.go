package usercfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fluxboard/internal/errors"
	"fluxboard/internal/logger"

	"github.com/BurntSushi/toml"
)

// ErrNotConfigured is returned when no config file exists. Callers fall back to defaults.
var ErrNotConfigured = fmt.Errorf("fluxboard is not configured; run: fluxboard setup")

// IsConfigured returns true if a config file exists or the data path is set via env.
func IsConfigured() bool {
	if os.Getenv("FLUXBOARD_DATA_PATH") != "" {
		return true
	}
	configPath := Path()
	if configPath == "" {
		return false
	}
	_, err := os.Stat(configPath)
	return err == nil
}

type Config struct {
	SchemaVersion int           `toml:"schema_version,omitempty"`
	DataPath      string        `toml:"data_path,omitempty"`
	SaveDelayMS   int           `toml:"save_delay_ms,omitempty"`
	UIPrefs       UIPreferences `toml:"ui_prefs,omitempty"`
}

type UIPreferences struct {
	LastSelectedCol int    `toml:"last_selected_col,omitempty"`
	LastFilter      string `toml:"last_filter,omitempty"`
	LastPriority    int    `toml:"last_priority,omitempty"`
	ShowTimestamps  bool   `toml:"show_timestamps,omitempty"`
}

const CurrentSchemaVersion = 1

func Path() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	// XDG-style path: ~/.config/fluxboard/config.toml
	return filepath.Join(homeDir, ".config", "fluxboard", "config.toml")
}

// DefaultDataPath is where the board lives unless data_path says otherwise.
func DefaultDataPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "board.json"
	}
	return filepath.Join(homeDir, ".local", "share", "fluxboard", "board.json")
}

func Load() (Config, error) {
	config, err := loadRaw()
	if err != nil {
		return getDefaults(), err
	}

	// Apply migrations if needed
	migratedConfig := migrateConfig(config)

	return mergeWithDefaults(migratedConfig), nil
}

// loadRaw decodes the config file as written: no migration, no defaults.
func loadRaw() (Config, error) {
	configPath := Path()
	if configPath == "" {
		return Config{}, errors.NewConfigError("load", fmt.Errorf("unable to determine home directory"))
	}

	if _, err := os.Stat(configPath); err != nil {
		return Config{}, ErrNotConfigured
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return Config{}, errors.NewConfigError("load", fmt.Errorf("failed to decode config file: %v", err))
	}
	logger.Config("loaded %s (schema %d)", configPath, config.SchemaVersion)
	return config, nil
}

func Save(config Config) error {
	configPath := Path()
	if configPath == "" {
		return fmt.Errorf("unable to determine home directory")
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	logger.Config("saved %s", configPath)
	return nil
}

// LoadForEdit is the config a command should modify and save back: the file
// merged with defaults, without FLUXBOARD_* overlays, so environment values
// are never persisted. A missing file is not an error.
func LoadForEdit() (Config, error) {
	config, err := Load()
	if err != nil && err != ErrNotConfigured {
		return Config{}, err
	}
	return config, nil
}

func GetRuntimeConfig() Config {
	config, err := Load()
	if err != nil && err != ErrNotConfigured {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		config = getDefaults()
	}

	// Apply environment variable overlays
	return applyEnvOverlays(config)
}

func mergeWithDefaults(config Config) Config {
	// Always ensure we have the current schema version
	config.SchemaVersion = CurrentSchemaVersion

	if config.DataPath == "" {
		config.DataPath = DefaultDataPath()
	}

	if config.SaveDelayMS <= 0 {
		config.SaveDelayMS = DefaultSaveDelayMS
	}

	return config
}

// SaveDelay is the debounce window for board writes.
func (c Config) SaveDelay() time.Duration {
	if c.SaveDelayMS <= 0 {
		return DefaultSaveDelayMS * time.Millisecond
	}
	return time.Duration(c.SaveDelayMS) * time.Millisecond
}

// BoardPath returns the board file location with a leading ~ expanded.
func (c Config) BoardPath() string {
	p := c.DataPath
	if p == "" {
		return DefaultDataPath()
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// EnvOverrides names the FLUXBOARD_* variables currently overriding the file.
func EnvOverrides() []string {
	var names []string
	for _, name := range []string{"FLUXBOARD_DATA_PATH", "FLUXBOARD_SAVE_DELAY_MS"} {
		if os.Getenv(name) != "" {
			names = append(names, name)
		}
	}
	return names
}

// applyEnvOverlays applies environment variable overlays to the config
func applyEnvOverlays(config Config) Config {
	// FLUXBOARD_DATA_PATH: board file location
	if v := os.Getenv("FLUXBOARD_DATA_PATH"); v != "" {
		config.DataPath = v
	}

	// FLUXBOARD_SAVE_DELAY_MS: debounce window, ignored unless a positive integer
	if v := os.Getenv("FLUXBOARD_SAVE_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && ms > 0 {
			config.SaveDelayMS = ms
		} else {
			logger.Warn("ignoring FLUXBOARD_SAVE_DELAY_MS=%q: not a positive integer", v)
		}
	}

	return config
}

// migrateConfig performs in-memory migration of config from older schema versions
func migrateConfig(config Config) Config {
	originalVersion := config.SchemaVersion

	// Migration from version 0 (no schema_version field) to version 1
	if originalVersion == 0 {
		// Version 0 files share the current layout, only the version is missing
		config.SchemaVersion = 1

		if config.DataPath != "" || config.SaveDelayMS != 0 {
			fmt.Fprintf(os.Stderr, "Info: Migrated config from schema version 0 to %d\n", config.SchemaVersion)
		}
	}

	return config
}

// MigrateAndSave loads the config, applies migrations, and saves it back to disk
// This is used by the `fluxboard config migrate` command
func MigrateAndSave() error {
	configPath := Path()
	if configPath == "" {
		return fmt.Errorf("unable to determine home directory")
	}

	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("no config file found to migrate")
	}

	var rawConfig Config
	if _, err := toml.DecodeFile(configPath, &rawConfig); err != nil {
		return fmt.Errorf("failed to decode config file: %v", err)
	}

	originalVersion := rawConfig.SchemaVersion
	if originalVersion == CurrentSchemaVersion {
		return fmt.Errorf("config is already at current schema version %d", CurrentSchemaVersion)
	}

	// Now apply the full Load() process which includes migration and merging
	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load config for migration: %v", err)
	}

	err = Save(config)
	if err != nil {
		return fmt.Errorf("failed to save migrated config: %v", err)
	}

	fmt.Printf("Successfully migrated config from schema version %d to %d\n", originalVersion, config.SchemaVersion)
	return nil
}

// SaveUIPrefs replaces the ui_prefs section and keeps every other key as
// written. Defaults are not filled in. A config file that fails to decode is
// left alone and the error returned.
func SaveUIPrefs(prefs UIPreferences) error {
	config, err := loadRaw()
	switch {
	case err == ErrNotConfigured:
		config = Config{}
	case err != nil:
		return err
	}

	config.SchemaVersion = CurrentSchemaVersion
	config.UIPrefs = prefs
	return Save(config)
}

// GetUIPrefs returns the current UI preferences from the runtime config
func GetUIPrefs() UIPreferences {
	// Allow ignoring UI prefs via env for troubleshooting
	if os.Getenv("FLUXBOARD_IGNORE_UI_PREFS") == "1" {
		return UIPreferences{}
	}
	config := GetRuntimeConfig()
	return config.UIPrefs
}

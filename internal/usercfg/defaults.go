package usercfg

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSaveDelayMS is the trailing debounce window for board writes.
const DefaultSaveDelayMS = 800

func getDefaults() Config {
	return Config{
		SchemaVersion: CurrentSchemaVersion,
		DataPath:      DefaultDataPath(),
		SaveDelayMS:   DefaultSaveDelayMS,
	}
}

// Keys lists the scalar keys understood by `fluxboard config get/set`.
var Keys = []string{"data_path", "save_delay_ms"}

// Get returns the string form of key.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "data_path":
		return c.DataPath, true
	case "save_delay_ms":
		return strconv.Itoa(c.SaveDelayMS), true
	case "schema_version":
		return strconv.Itoa(c.SchemaVersion), true
	}
	return "", false
}

// Set parses value into key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "data_path":
		if value == "" {
			return fmt.Errorf("data_path cannot be empty")
		}
		c.DataPath = value
	case "save_delay_ms":
		ms, err := strconv.Atoi(value)
		if err != nil || ms <= 0 {
			return fmt.Errorf("save_delay_ms must be a positive integer, got %q", value)
		}
		c.SaveDelayMS = ms
	default:
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Package config loads the optional TOML file backing a host's
// startup defaults, layered under CLI flags the same way
// cmd/gbcore's main layers flag.Parse over config.Load — never the
// other way around, so a flag always wins over a file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"gbcore/internal/emulator"
)

// KeyBindings maps each button to the name of the key that presses it,
// using the names cmd/gbcore's SDL2 key lookup understands (e.g. "Z",
// "Left", "Return").
type KeyBindings struct {
	A      string `toml:"a"`
	B      string `toml:"b"`
	Select string `toml:"select"`
	Start  string `toml:"start"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
}

// DefaultKeyBindings matches cmd/emulator's historical control scheme.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		A: "Z", B: "X", Select: "RShift", Start: "Return",
		Up: "Up", Down: "Down", Left: "Left", Right: "Right",
	}
}

// Config is the decoded shape of the optional .toml config file.
type Config struct {
	LogLevel    string      `toml:"log_level"`
	FrameLimit  bool        `toml:"frame_limit"`
	Scale       int         `toml:"scale"`
	KeyBindings KeyBindings `toml:"keys"`
}

// Default returns the built-in defaults used when no config file is
// present, or a field is left unset in one that is.
func Default() Config {
	return Config{
		LogLevel:    "error",
		FrameLimit:  true,
		Scale:       3,
		KeyBindings: DefaultKeyBindings(),
	}
}

// Load reads and decodes path, starting from Default() so a partial
// file only overrides the fields it names.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if cfg.Scale < 1 || cfg.Scale > 6 {
		return cfg, fmt.Errorf("config: scale %d out of range 1-6", cfg.Scale)
	}
	return cfg, nil
}

// EmulatorLogLevel maps the config's string level onto the façade's LogLevel
// enum, defaulting to LogError on an unrecognized value.
func (c Config) EmulatorLogLevel() emulator.LogLevel {
	switch c.LogLevel {
	case "disabled":
		return emulator.LogDisabled
	case "warning":
		return emulator.LogWarning
	case "debug":
		return emulator.LogDebug
	default:
		return emulator.LogError
	}
}

// Package config loads the interpreter's optional run configuration,
// grounded on lookbusy1344-arm_emulator's config.Config/Load pattern:
// sane built-in defaults, TOML overrides, absence of the file is not an
// error.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wevanson/classvm/internal/trace"
	"github.com/wevanson/classvm/internal/vm"
)

// Config is classvm's run configuration, loaded from an optional
// classvm.toml in the working directory.
type Config struct {
	Trace struct {
		Level string `toml:"level"` // "FINE", "INFO", "WARNING", "SEVERE"
	} `toml:"trace"`

	Interpreter struct {
		MaxCallStackDepth int `toml:"max_call_stack_depth"`
	} `toml:"interpreter"`
}

// DefaultConfig returns the built-in defaults applied when no config
// file is present or a file omits a field.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Trace.Level = "INFO"
	cfg.Interpreter.MaxCallStackDepth = vm.DefaultMaxCallStackDepth
	return cfg
}

// Load reads path and overlays it on DefaultConfig. A missing file is
// not an error: the defaults apply unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// TraceLevel parses c.Trace.Level, falling back to INFO on an
// unrecognized value rather than failing the run over a cosmetic
// setting.
func (c *Config) TraceLevel() trace.Level {
	switch c.Trace.Level {
	case "FINE":
		return trace.FINE
	case "INFO":
		return trace.INFO
	case "WARNING":
		return trace.WARNING
	case "SEVERE":
		return trace.SEVERE
	default:
		return trace.INFO
	}
}

// Package config merges the settings a Grace run needs from three
// sources, in precedence order: CLI flags, an optional .gracerc.toml
// project file, then built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags binds the flags in flags named verbose, warnings_as_error,
// show_full_callstack and max_callstack_frames (the config key names;
// flags under other names are not looked up) into v, so that Load can
// later read back whichever ones the user actually changed on the
// command line (flags viper binds this way only win over the project
// file when pflag reports them Changed).
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{"verbose", "warnings_as_error", "show_full_callstack", "max_callstack_frames"} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config is the merged set of settings read by cmd/grace before
// constructing the compiler and VM.
type Config struct {
	Verbose            bool `toml:"verbose"`
	WarningsAsError    bool `toml:"warnings_as_error"`
	ShowFullCallStack  bool `toml:"show_full_callstack"`
	MaxCallStackFrames int  `toml:"max_callstack_frames"`
}

// defaults returns the built-in values used when neither a flag nor the
// project file sets them.
func defaults() Config {
	return Config{
		Verbose:            false,
		WarningsAsError:    false,
		ShowFullCallStack:  false,
		MaxCallStackFrames: 15,
	}
}

// fileName is the project file searched for in the working directory.
const fileName = ".gracerc.toml"

// Load builds a Config by starting from defaults, overlaying
// .gracerc.toml (if present in dir), then overlaying any flags the
// caller has explicitly set in v. v is expected to already have its
// flags bound (see BindFlags); Load only reads back what was actually
// changed, so an unset flag never clobbers a project-file value.
func Load(dir string, v *viper.Viper) (Config, error) {
	cfg := defaults()

	path := filepath.Join(dir, fileName)
	if data, err := os.ReadFile(path); err == nil {
		var fromFile Config
		if _, err := toml.Decode(string(data), &fromFile); err != nil {
			return Config{}, err
		}
		cfg = mergeFile(cfg, fromFile, data)
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	if v != nil {
		if v.IsSet("verbose") {
			cfg.Verbose = v.GetBool("verbose")
		}
		if v.IsSet("warnings_as_error") {
			cfg.WarningsAsError = v.GetBool("warnings_as_error")
		}
		if v.IsSet("show_full_callstack") {
			cfg.ShowFullCallStack = v.GetBool("show_full_callstack")
		}
		if v.IsSet("max_callstack_frames") {
			cfg.MaxCallStackFrames = v.GetInt("max_callstack_frames")
		}
	}
	return cfg, nil
}

// mergeFile overlays whichever keys were actually present in the raw
// TOML bytes onto base, leaving keys the file didn't mention untouched.
// toml.Decode zero-fills missing keys, which would otherwise silently
// reset e.g. max_callstack_frames to 0 for a file that only sets verbose.
func mergeFile(base, fromFile Config, data []byte) Config {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return base
	}
	if _, ok := raw["verbose"]; ok {
		base.Verbose = fromFile.Verbose
	}
	if _, ok := raw["warnings_as_error"]; ok {
		base.WarningsAsError = fromFile.WarningsAsError
	}
	if _, ok := raw["show_full_callstack"]; ok {
		base.ShowFullCallStack = fromFile.ShowFullCallStack
	}
	if _, ok := raw["max_callstack_frames"]; ok {
		base.MaxCallStackFrames = fromFile.MaxCallStackFrames
	}
	return base
}

// Package config loads the optional ng.toml user configuration file.
package config

// ActivationMode mirrors workflow.ActivationMode without importing it, so
// config has no dependency on the workflow package; workflow converts
// between the two at its boundary.
type ActivationMode string

const (
	ModeSwitch    ActivationMode = "switch"
	ModeBoot      ActivationMode = "boot"
	ModeTest      ActivationMode = "test"
	ModeBuildOnly ActivationMode = "build-only"
)

// AutoClean controls post-rebuild generation cleanup.
type AutoClean struct {
	Enabled      bool             `toml:"enabled"`
	OnSuccessFor []ActivationMode `toml:"on-success-for"`
	KeepCount    int              `toml:"keep-count"`
	KeepDays     int              `toml:"keep-days"`
	RunGC        bool             `toml:"run-gc"`
	RunOptimise  bool             `toml:"run-optimise"`
}

// NgConfig is the full user configuration, loaded from an optional TOML
// file at startup.
type NgConfig struct {
	AutoClean AutoClean `toml:"auto-clean"`
}

// Default returns the configuration used when no file is present.
func Default() *NgConfig {
	return &NgConfig{
		AutoClean: AutoClean{
			Enabled:      false,
			OnSuccessFor: []ActivationMode{ModeSwitch, ModeBoot},
			KeepCount:    3,
			KeepDays:     14,
			RunGC:        false,
			RunOptimise:  false,
		},
	}
}

// OnSuccessForMode reports whether cfg's auto-clean is configured to run
// after a rebuild that activated with mode.
func (c *NgConfig) OnSuccessForMode(mode ActivationMode) bool {
	for _, m := range c.AutoClean.OnSuccessFor {
		if m == mode {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads ng.toml at path. A missing file yields Default() with no
// error; a present-but-malformed file is a fatal startup failure — there
// is no silent fallback to defaults once a file exists, so a typo in the
// config is never misread as "no config".
func Load(path string) (*NgConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

// ValidationError holds every validation failure found in a config, so a
// user fixing their config file sees all problems in one pass instead of
// one at a time.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks cfg for semantic correctness beyond what TOML decoding
// itself enforces.
func Validate(cfg *NgConfig) []string {
	var errs []string

	if cfg.AutoClean.KeepCount < 0 {
		errs = append(errs, "auto-clean.keep-count must be non-negative")
	}
	if cfg.AutoClean.KeepDays < 0 {
		errs = append(errs, "auto-clean.keep-days must be non-negative")
	}
	for _, m := range cfg.AutoClean.OnSuccessFor {
		switch m {
		case ModeSwitch, ModeBoot, ModeTest, ModeBuildOnly:
		default:
			errs = append(errs, fmt.Sprintf("auto-clean.on-success-for: invalid activation mode %q", m))
		}
	}

	return errs
}

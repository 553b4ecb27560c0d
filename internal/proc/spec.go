// Package proc executes external processes and normalizes their outcome
// into typed results instead of bare errors. Every other component that
// shells out to nix, git, or a formatter funnels through here.
package proc

import "os/exec"

// Spec describes a command to run. It mirrors exec.Cmd closely enough to
// build one, but stays a plain value so callers can render it (for error
// messages and debug logging) before anything spawns.
type Spec struct {
	Path string
	Args []string
	Dir  string
	Env  []string // nil means inherit the current environment
}

// Command is a convenience constructor for the common case.
func Command(path string, args ...string) Spec {
	return Spec{Path: path, Args: args}
}

// WithArgs returns a copy of s with extra arguments appended.
func (s Spec) WithArgs(args ...string) Spec {
	s.Args = append(append([]string{}, s.Args...), args...)
	return s
}

// WithDir returns a copy of s with its working directory set.
func (s Spec) WithDir(dir string) Spec {
	s.Dir = dir
	return s
}

// String renders the command the way a user would type it, used in
// NonZeroExit's rendered command string and in debug logging.
func (s Spec) String() string {
	rendered := s.Path
	for _, a := range s.Args {
		rendered += " " + quoteIfNeeded(a)
	}
	return rendered
}

func quoteIfNeeded(a string) string {
	if a == "" {
		return `""`
	}
	for _, r := range a {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '/' || r == '.' || r == ':' || r == '=' || r == '#':
		default:
			return `"` + a + `"`
		}
	}
	return a
}

func (s Spec) toExecCmd() *exec.Cmd {
	cmd := exec.Command(s.Path, s.Args...)
	cmd.Dir = s.Dir
	if s.Env != nil {
		cmd.Env = s.Env
	}
	return cmd
}

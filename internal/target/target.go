package target

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind discriminates the four forms an Installable can take. Target is a
// closed sum type implemented as a tagged struct rather than an interface,
// since every operation on it (ToArgs, String) needs to switch on all four
// cases and there is no meaningful shared behavior to hide behind a method
// set.
type Kind int

const (
	// KindFlake is a flake reference plus an optional attribute path,
	// e.g. ".#nixosConfigurations.host.config.system.build.toplevel".
	KindFlake Kind = iota
	// KindFile is a path to a .nix file plus an optional attribute path.
	KindFile
	// KindExpression is an inline Nix expression plus an optional
	// attribute path.
	KindExpression
	// KindStore is an already-resolved /nix/store path.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindFlake:
		return "flake"
	case KindFile:
		return "file"
	case KindExpression:
		return "expression"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Target is the parsed form of a user-supplied installable argument.
// Exactly the fields relevant to Kind are populated; the rest are zero.
type Target struct {
	Kind Kind

	// Flake reference (KindFlake only), e.g. "." or "github:owner/repo".
	Reference string
	// File path (KindFile only).
	Path string
	// Nix expression text (KindExpression only).
	Expression string
	// Store path (KindStore only).
	StorePath string

	// Attribute is the dotted attribute path within the target. Unused
	// for KindStore.
	Attribute []string
}

// Flake builds a KindFlake target. attribute may be nil.
func Flake(reference string, attribute []string) Target {
	return Target{Kind: KindFlake, Reference: reference, Attribute: attribute}
}

// File builds a KindFile target.
func File(path string, attribute []string) Target {
	return Target{Kind: KindFile, Path: path, Attribute: attribute}
}

// Expression builds a KindExpression target.
func Expression(expr string, attribute []string) Target {
	return Target{Kind: KindExpression, Expression: expr, Attribute: attribute}
}

// Store builds a KindStore target.
func Store(path string) Target {
	return Target{Kind: KindStore, StorePath: path}
}

// WithSuffix returns a copy of t with additional attribute segments
// appended, used to append a platform's toplevel derivation suffix (see
// internal/workflow's suffix table) onto a user-supplied target.
func (t Target) WithSuffix(suffix []string) Target {
	t.Attribute = append(append([]string{}, t.Attribute...), suffix...)
	return t
}

// ToArgs renders t the way nix's own CLI expects an installable argument,
// mirroring the forms nix build/eval accept on the command line.
func (t Target) ToArgs() []string {
	switch t.Kind {
	case KindFlake:
		return []string{t.Reference + "#" + JoinAttributePath(t.Attribute)}
	case KindFile:
		return []string{"--file", t.Path, JoinAttributePath(t.Attribute)}
	case KindExpression:
		return []string{"--expr", t.Expression, JoinAttributePath(t.Attribute)}
	case KindStore:
		return []string{t.StorePath}
	default:
		return nil
	}
}

// String renders t for logging and diagnostic messages.
func (t Target) String() string {
	switch t.Kind {
	case KindFlake:
		return t.Reference + "#" + JoinAttributePath(t.Attribute)
	case KindFile:
		return fmt.Sprintf("%s [%s]", t.Path, JoinAttributePath(t.Attribute))
	case KindExpression:
		return fmt.Sprintf("<expr> [%s]", JoinAttributePath(t.Attribute))
	case KindStore:
		return t.StorePath
	default:
		return "<invalid target>"
	}
}

// Env holds the environment-variable fallback values consulted when the
// user supplies no positional installable argument, per the command-specific
// and generic flake variables nix-based tooling conventionally honors.
type Env struct {
	CurrentCommand string // "os", "home", or "darwin"
	Flake          string
	OSFlake        string
	HomeFlake      string
	DarwinFlake    string
	File           string
	AttrPath       string
}

// EnvFromEnviron builds an Env from the process environment.
func EnvFromEnviron() Env {
	return Env{
		CurrentCommand: os.Getenv("NH_CURRENT_COMMAND"),
		Flake:          os.Getenv("NH_FLAKE"),
		OSFlake:        os.Getenv("NH_OS_FLAKE"),
		HomeFlake:      os.Getenv("NH_HOME_FLAKE"),
		DarwinFlake:    os.Getenv("NH_DARWIN_FLAKE"),
		File:           os.Getenv("NH_FILE"),
		AttrPath:       os.Getenv("NH_ATTRP"),
	}
}

// Resolve parses a user-supplied installable. arg is the positional
// argument (may be empty); file and expr are the --file/--expr flag values
// (at most one should be set; callers enforce mutual exclusion upstream).
// When arg, file, and expr are all empty, Resolve falls back to env's
// fallback chain: the command-specific flake variable first, then the
// generic ones, in the order a user would expect their most specific
// setting to win.
func Resolve(arg, file, expr string, env Env) (Target, error) {
	if arg != "" {
		if abs, err := filepath.Abs(arg); err == nil {
			if resolved, err := filepath.EvalSymlinks(abs); err == nil && isStorePath(resolved) {
				return Store(resolved), nil
			}
		}
	}

	if file != "" {
		attr, err := ParseAttributePath(arg)
		if err != nil {
			return Target{}, err
		}
		return File(file, attr), nil
	}

	if expr != "" {
		attr, err := ParseAttributePath(arg)
		if err != nil {
			return Target{}, err
		}
		return Expression(expr, attr), nil
	}

	if arg != "" {
		reference, attrStr := splitFlakeRef(arg)
		attr, err := ParseAttributePath(attrStr)
		if err != nil {
			return Target{}, err
		}
		return Flake(reference, attr), nil
	}

	return resolveFromEnv(env)
}

func resolveFromEnv(env Env) (Target, error) {
	tryFlake := func(spec string) (Target, bool, error) {
		if spec == "" {
			return Target{}, false, nil
		}
		reference, attrStr := splitFlakeRef(spec)
		attr, err := ParseAttributePath(attrStr)
		if err != nil {
			return Target{}, true, err
		}
		return Flake(reference, attr), true, nil
	}

	switch env.CurrentCommand {
	case "os":
		if t, ok, err := tryFlake(env.OSFlake); ok {
			return t, err
		}
	case "home":
		if t, ok, err := tryFlake(env.HomeFlake); ok {
			return t, err
		}
	case "darwin":
		if t, ok, err := tryFlake(env.DarwinFlake); ok {
			return t, err
		}
	}

	for _, spec := range []string{env.Flake, env.OSFlake, env.HomeFlake, env.DarwinFlake} {
		if t, ok, err := tryFlake(spec); ok {
			return t, err
		}
	}

	if env.File != "" {
		attr, err := ParseAttributePath(env.AttrPath)
		if err != nil {
			return Target{}, err
		}
		return File(env.File, attr), nil
	}

	return Target{}, fmt.Errorf("no installable given and no NH_FLAKE/NH_FILE fallback set")
}

func splitFlakeRef(s string) (reference, attribute string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '#' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func isStorePath(p string) bool {
	const prefix = "/nix/store/"
	return len(p) > len(prefix) && p[:len(prefix)] == prefix
}

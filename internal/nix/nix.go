// Package nix wraps internal/proc with nix-specific semantics: building,
// evaluating, fetching build logs, and store maintenance, each returning
// a typed result instead of a bare proc.Outcome.
package nix

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ngcli/ng/internal/proc"
	"github.com/ngcli/ng/internal/target"
)

// determinateProfileBin is where Determinate Nix installs its binaries,
// outside PATH by default on minimal setups.
const determinateProfileBin = "/nix/var/nix/profiles/default/bin"

// FindBinary resolves a nix-family binary, checking PATH first and then
// the Determinate Nix installation directory.
func FindBinary(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	fallback := filepath.Join(determinateProfileBin, name)
	if _, err := os.Stat(fallback); err == nil {
		return fallback, nil
	}
	return "", fmt.Errorf("%s not found on PATH or at %s — install Nix first", name, fallback)
}

// Interface is the typed wrapper over the nix CLI. Every method funnels
// through internal/proc; Interface never invokes nix directly.
type Interface struct {
	// BinaryPath overrides binary resolution, for tests.
	BinaryPath string
}

func New() *Interface { return &Interface{} }

func (i *Interface) binary() (string, error) {
	if i.BinaryPath != "" {
		return i.BinaryPath, nil
	}
	return FindBinary("nix")
}

// BuildError is returned by Build when the underlying nix invocation
// fails, carrying the raw stderr plus any derivation paths it could
// identify as having failed.
type BuildError struct {
	Stderr                 string
	DetectedFailedDrvPaths []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("nix build failed: %s", e.Stderr)
}

// FailedDerivations returns the derivation paths detected in the build's
// stderr, for callers that want to fetch and report their logs.
func (e *BuildError) FailedDerivations() []string { return e.DetectedFailedDrvPaths }

// reBuilderFailed matches "error: builder for '/nix/store/...drv' failed",
// ported from original_source/src/error_handler.rs's RE_BUILDER_FAILED.
var reBuilderFailed = regexp.MustCompile(`error: builder for '(/nix/store/[^']*?\.drv)' failed`)

// FindFailedDerivations scans stderr for builder-failure lines and returns
// the distinct derivation paths named in them, in the order first seen.
func FindFailedDerivations(stderr string) []string {
	matches := reBuilderFailed.FindAllStringSubmatch(stderr, -1)
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		path := m[1]
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	return out
}

// Build builds target, linking the result at outLink, and returns the
// resolved store path. When useMonitor is true, builder output is piped
// through a diff monitor (nvd or similar) via run-piped instead of
// inherited directly.
func (i *Interface) Build(ctx context.Context, t target.Target, outLink string, extra []string, useMonitor bool, verbosity int) (string, error) {
	bin, err := i.binary()
	if err != nil {
		return "", err
	}

	args := []string{"build"}
	args = append(args, t.ToArgs()...)
	args = append(args, "--out-link", outLink)
	args = append(args, extra...)
	args = proc.AppendVerbosity(args, verbosity)

	cmd := proc.Command(bin, args...)

	var outcome proc.Outcome
	if useMonitor {
		monitor := proc.Command("nvd", "diff", "/dev/null", outLink)
		outcome = proc.RunPiped(ctx, cmd, monitor)
	} else {
		outcome = proc.RunInherit(ctx, cmd)
	}

	switch o := outcome.(type) {
	case proc.Completed:
		resolved, err := filepath.EvalSymlinks(outLink)
		if err != nil {
			return "", fmt.Errorf("build succeeded but out-link %q could not be resolved: %w", outLink, err)
		}
		return resolved, nil
	case proc.NonZeroExit:
		return "", &BuildError{Stderr: o.Stderr, DetectedFailedDrvPaths: FindFailedDerivations(o.Stderr)}
	case proc.InheritedNonZeroExit:
		return "", &BuildError{Stderr: ""}
	case proc.SpawnFailed:
		return "", fmt.Errorf("failed to run nix build: %s", o.Err)
	default:
		return "", fmt.Errorf("unexpected outcome type %T from nix build", outcome)
	}
}

// EvalError wraps a failed evaluate-json call with the detail nix reported.
type EvalError struct {
	Detail string
}

func (e *EvalError) Error() string { return fmt.Sprintf("nix eval failed: %s", e.Detail) }

// EvaluateJSON evaluates target and parses stdout as JSON, returning the
// raw JSON bytes; output that does not parse is reported as an EvalError.
func (i *Interface) EvaluateJSON(ctx context.Context, t target.Target, verbosity int) ([]byte, error) {
	bin, err := i.binary()
	if err != nil {
		return nil, err
	}

	args := []string{"eval", "--json"}
	args = append(args, t.ToArgs()...)
	args = proc.AppendVerbosity(args, verbosity)

	outcome := proc.RunCapture(ctx, proc.Command(bin, args...))
	switch o := outcome.(type) {
	case proc.Completed:
		if !json.Valid([]byte(o.Stdout)) {
			return nil, &EvalError{Detail: "output is not valid JSON"}
		}
		return []byte(o.Stdout), nil
	case proc.NonZeroExit:
		return nil, &EvalError{Detail: o.Stderr}
	case proc.SpawnFailed:
		return nil, fmt.Errorf("failed to run nix eval: %s", o.Err)
	default:
		return nil, fmt.Errorf("unexpected outcome type %T from nix eval", outcome)
	}
}

// EvalApply evaluates applyExpr against target using "nix eval --apply",
// returning trimmed stdout. Used by the home-manager strategy to probe
// which "user@host" or "user" attribute a flake actually defines before
// committing to one.
func (i *Interface) EvalApply(ctx context.Context, t target.Target, applyExpr string, verbosity int) (string, error) {
	bin, err := i.binary()
	if err != nil {
		return "", err
	}

	args := []string{"eval", "--apply", applyExpr}
	args = append(args, t.ToArgs()...)
	args = proc.AppendVerbosity(args, verbosity)

	outcome := proc.RunCapture(ctx, proc.Command(bin, args...))
	switch o := outcome.(type) {
	case proc.Completed:
		return strings.TrimSpace(o.Stdout), nil
	case proc.NonZeroExit:
		return "", &EvalError{Detail: o.Stderr}
	case proc.SpawnFailed:
		return "", fmt.Errorf("failed to run nix eval --apply: %s", o.Err)
	default:
		return "", fmt.Errorf("unexpected outcome type %T from nix eval --apply", outcome)
	}
}

// FetchBuildLog runs "nix log" for a derivation path and returns its text.
func (i *Interface) FetchBuildLog(ctx context.Context, drvPath string, verbosity int) (string, error) {
	bin, err := i.binary()
	if err != nil {
		return "", err
	}

	args := proc.AppendVerbosity([]string{"log", drvPath}, verbosity)
	outcome := proc.RunCapture(ctx, proc.Command(bin, args...))
	switch o := outcome.(type) {
	case proc.Completed:
		return o.Stdout, nil
	case proc.NonZeroExit:
		return "", fmt.Errorf("nix log %s: %s", drvPath, o.Stderr)
	case proc.SpawnFailed:
		return "", fmt.Errorf("failed to run nix log: %s", o.Err)
	default:
		return "", fmt.Errorf("unexpected outcome type %T from nix log", outcome)
	}
}

// GarbageCollect runs the store garbage collector, elevated unless
// already root.
func (i *Interface) GarbageCollect(ctx context.Context, dryRun bool, verbosity int) error {
	bin, err := i.binary()
	if err != nil {
		return err
	}
	args := []string{"store", "gc"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	args = proc.AppendVerbosity(args, verbosity)

	cmd := proc.Sudo(proc.Command(bin, args...))
	return outcomeToError(proc.RunInherit(ctx, cmd), "nix store gc")
}

// OptimiseStore runs the store optimiser, elevated unless already root.
func (i *Interface) OptimiseStore(ctx context.Context, dryRun bool, verbosity int) error {
	bin, err := i.binary()
	if err != nil {
		return err
	}
	args := []string{"store", "optimise"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	args = proc.AppendVerbosity(args, verbosity)

	cmd := proc.Sudo(proc.Command(bin, args...))
	return outcomeToError(proc.RunInherit(ctx, cmd), "nix store optimise")
}

// DryRunBuild performs a build-only dry run (no realization), used by the
// full-checks pre-flight level.
func (i *Interface) DryRunBuild(ctx context.Context, t target.Target, verbosity int) error {
	bin, err := i.binary()
	if err != nil {
		return err
	}
	args := []string{"build", "--dry-run"}
	args = append(args, t.ToArgs()...)
	args = proc.AppendVerbosity(args, verbosity)

	return outcomeToError(proc.RunCapture(ctx, proc.Command(bin, args...)), "nix build --dry-run")
}

func outcomeToError(outcome proc.Outcome, label string) error {
	switch o := outcome.(type) {
	case proc.Completed:
		return nil
	case proc.NonZeroExit:
		return fmt.Errorf("%s: %s", label, o.Stderr)
	case proc.InheritedNonZeroExit:
		return fmt.Errorf("%s: exited with status %s", label, o.Status)
	case proc.SpawnFailed:
		return fmt.Errorf("%s: %s", label, o.Err)
	default:
		return fmt.Errorf("%s: unexpected outcome type %T", label, outcome)
	}
}

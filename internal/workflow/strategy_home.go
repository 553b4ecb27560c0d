package workflow

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/ngcli/ng/internal/proc"
	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/target"
)

// HomeArgs is the platform-specific argument bundle for the home-manager
// strategy.
type HomeArgs struct {
	Specialisation   string
	NoSpecialisation bool
}

// HomeStrategy rebuilds a homeConfigurations output, grounded on
// original_source/src/home.rs. Unlike the OS and Darwin strategies, the
// attribute name isn't simply the hostname: home-manager flakes define
// either "user@host" or bare "user", so toplevel_for probes both with
// "nix eval --apply" before picking one.
type HomeStrategy struct{}

func (HomeStrategy) Name() string { return "home" }

func (HomeStrategy) PreRebuildHook(_ context.Context, _ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) error {
	return nil
}

func (HomeStrategy) ToplevelInstallable(ctx context.Context, op *rebuildctx.OperationContext, args rebuildctx.PlatformArgs) (target.Target, error) {
	a, _ := args.(HomeArgs)
	t := op.CommonArgs.Installable
	if len(t.Attribute) > 0 {
		return t, nil
	}

	u, err := user.Current()
	if err != nil {
		return target.Target{}, fmt.Errorf("determining current user: %w", err)
	}
	hostname, err := os.Hostname()
	if err != nil {
		return target.Target{}, fmt.Errorf("determining hostname: %w", err)
	}

	attrName, err := toplevelFor(ctx, op, t, u.Username, hostname)
	if err != nil {
		return target.Target{}, err
	}

	suffix := homeActivationSuffix
	if a.Specialisation != "" && !a.NoSpecialisation {
		suffix = append([]string{"specialisation", a.Specialisation}, homeActivationSuffix...)
	}

	return t.WithSuffix(append([]string{homeConfigurationsAttr, attrName}, suffix...)), nil
}

// toplevelFor probes which of "user@host" or "user" a homeConfigurations
// flake output actually defines, matching home.rs's toplevel_for.
func toplevelFor(ctx context.Context, op *rebuildctx.OperationContext, base target.Target, username, hostname string) (string, error) {
	qualified := username + "@" + hostname

	probe := base.WithSuffix([]string{homeConfigurationsAttr})
	applyExpr := fmt.Sprintf(`x: x ? %q`, qualified)
	out, err := op.NixInterface.EvalApply(ctx, probe, applyExpr, op.VerboseCount)
	if err == nil && out == "true" {
		return qualified, nil
	}

	applyExpr = fmt.Sprintf(`x: x ? %q`, username)
	out, err = op.NixInterface.EvalApply(ctx, probe, applyExpr, op.VerboseCount)
	if err == nil && out == "true" {
		return username, nil
	}

	return "", fmt.Errorf("flake defines neither homeConfigurations.%q nor homeConfigurations.%q", qualified, username)
}

// CurrentProfilePath looks up the previous home-manager generation's
// profile symlink, checked under the per-user Nix profile directory first
// and falling back to the XDG state directory home-manager uses on
// multi-user-less installs.
func (HomeStrategy) CurrentProfilePath(_ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) (string, bool) {
	_, current, ok := HomeStrategy{}.ProfileDirs()
	return current, ok
}

// ProfileDirs implements the optional interface engine.autoClean looks
// for: dir is the directory holding the numbered generation links, current
// is the full path to the "home-manager" symlink pointing at the active
// one.
func (HomeStrategy) ProfileDirs() (dir, current string, ok bool) {
	u, err := user.Current()
	if err != nil {
		return "", "", false
	}

	perUserDir := filepath.Join("/nix/var/nix/profiles/per-user", u.Username)
	perUserCurrent := filepath.Join(perUserDir, "home-manager")
	if _, err := os.Lstat(perUserCurrent); err == nil {
		return perUserDir, perUserCurrent, true
	}

	xdgStateDir := filepath.Join(u.HomeDir, ".local/state/nix/profiles")
	xdgCurrent := filepath.Join(xdgStateDir, "home-manager")
	if _, err := os.Lstat(xdgCurrent); err == nil {
		return xdgStateDir, xdgCurrent, true
	}

	return "", "", false
}

func (HomeStrategy) Activate(ctx context.Context, op *rebuildctx.OperationContext, args rebuildctx.PlatformArgs, builtProfilePath string, mode rebuildctx.ActivationMode) error {
	a, _ := args.(HomeArgs)
	if mode != rebuildctx.Switch {
		return fmt.Errorf("home strategy only supports switch activation, got %s", mode)
	}

	targetProfile := builtProfilePath
	if a.Specialisation != "" && !a.NoSpecialisation {
		targetProfile = filepath.Join(builtProfilePath, "specialisation", a.Specialisation)
	}

	outcome := proc.RunInherit(ctx, proc.Command(filepath.Join(targetProfile, "activate")))
	switch o := outcome.(type) {
	case proc.Completed:
		return nil
	case proc.InheritedNonZeroExit:
		return fmt.Errorf("activate exited with status %s", o.Status)
	case proc.SpawnFailed:
		return fmt.Errorf("failed to run activate: %s", o.Err)
	default:
		return fmt.Errorf("unexpected outcome type %T from activate", outcome)
	}
}

func (HomeStrategy) PostRebuildHook(_ context.Context, _ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) error {
	return nil
}

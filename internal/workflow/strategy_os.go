package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/ngcli/ng/internal/proc"
	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/target"
)

// OsArgs is the platform-specific argument bundle for the NixOS strategy,
// passed through Strategy's opaque rebuildctx.PlatformArgs.
type OsArgs struct {
	Hostname         string
	BypassRootCheck  bool
	Specialisation   string
	NoSpecialisation bool
}

// OsStrategy rebuilds a nixosConfigurations.<hostname> flake output and
// activates it with switch-to-configuration, grounded on
// original_source/src/nixos_strategy.rs.
type OsStrategy struct{}

func (OsStrategy) Name() string { return "os" }

func (OsStrategy) PreRebuildHook(_ context.Context, _ *rebuildctx.OperationContext, args rebuildctx.PlatformArgs) error {
	a, _ := args.(OsArgs)
	if os.Geteuid() == 0 && !a.BypassRootCheck {
		return fmt.Errorf("ng os should not be run as root — it will re-exec the activation step under sudo itself")
	}
	return nil
}

func (OsStrategy) ToplevelInstallable(ctx context.Context, op *rebuildctx.OperationContext, args rebuildctx.PlatformArgs) (target.Target, error) {
	a, _ := args.(OsArgs)
	t := op.CommonArgs.Installable
	if len(t.Attribute) > 0 {
		return t, nil
	}

	hostname := a.Hostname
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return target.Target{}, fmt.Errorf("determining hostname: %w", err)
		}
		hostname = h
	}

	suffix := toplevelSuffix
	if a.Specialisation != "" && !a.NoSpecialisation {
		suffix = specialisationSuffix(a.Specialisation)
	}

	return t.WithSuffix(append([]string{osConfigurationsAttr, hostname}, suffix...)), nil
}

func (OsStrategy) CurrentProfilePath(_ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) (string, bool) {
	return "/run/current-system", true
}

// ProfileDirs implements the optional interface engine.autoClean looks for:
// NixOS generations live in a single system profile directory.
func (OsStrategy) ProfileDirs() (dir, current string, ok bool) {
	return "/nix/var/nix/profiles", "/run/current-system", true
}

func (OsStrategy) Activate(ctx context.Context, op *rebuildctx.OperationContext, args rebuildctx.PlatformArgs, builtProfilePath string, mode rebuildctx.ActivationMode) error {
	a, _ := args.(OsArgs)

	var sub string
	switch mode {
	case rebuildctx.Switch:
		sub = "switch"
	case rebuildctx.Boot:
		sub = "boot"
	case rebuildctx.TestMode:
		sub = "test"
	default:
		return fmt.Errorf("os strategy cannot activate in mode %s", mode)
	}

	bin := builtProfilePath + "/bin/switch-to-configuration"
	cmd := proc.Command(bin, sub)
	if !a.BypassRootCheck {
		cmd = proc.Sudo(cmd)
	}

	outcome := proc.RunInherit(ctx, cmd)
	switch o := outcome.(type) {
	case proc.Completed:
		return nil
	case proc.InheritedNonZeroExit:
		return fmt.Errorf("switch-to-configuration exited with status %s", o.Status)
	case proc.SpawnFailed:
		return fmt.Errorf("failed to run switch-to-configuration: %s", o.Err)
	default:
		return fmt.Errorf("unexpected outcome type %T from switch-to-configuration", outcome)
	}
}

func (OsStrategy) PostRebuildHook(_ context.Context, _ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) error {
	return nil
}

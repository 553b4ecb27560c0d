package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/ngcli/ng/internal/proc"
	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/target"
)

// DarwinArgs is the platform-specific argument bundle for the nix-darwin
// strategy.
type DarwinArgs struct {
	Hostname         string
	Specialisation   string
	NoSpecialisation bool
}

// DarwinStrategy rebuilds a darwinConfigurations.<hostname> flake output.
// Grounded on original_source/src/darwin_strategy.rs, which itself only
// fully implements Switch activation — Boot and Test are left unhandled
// there, and we preserve that limitation rather than inventing activation
// semantics nix-darwin doesn't define.
type DarwinStrategy struct{}

func (DarwinStrategy) Name() string { return "darwin" }

func (DarwinStrategy) PreRebuildHook(_ context.Context, _ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) error {
	return nil
}

func (DarwinStrategy) ToplevelInstallable(ctx context.Context, op *rebuildctx.OperationContext, args rebuildctx.PlatformArgs) (target.Target, error) {
	a, _ := args.(DarwinArgs)
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

	return t.WithSuffix(append([]string{darwinConfigurationsAttr, hostname}, suffix...)), nil
}

// CurrentProfilePath always reports false: nix-darwin has no single stable
// profile path comparable across rebuilds the way /run/current-system is,
// per darwin_strategy.rs's get_current_profile_path.
func (DarwinStrategy) CurrentProfilePath(_ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) (string, bool) {
	return "", false
}

func (DarwinStrategy) Activate(ctx context.Context, _ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs, builtProfilePath string, mode rebuildctx.ActivationMode) error {
	if mode != rebuildctx.Switch {
		return fmt.Errorf("darwin strategy only supports switch activation, got %s", mode)
	}

	outcome := proc.RunInherit(ctx, proc.Command(builtProfilePath+"/activate"))
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

func (DarwinStrategy) PostRebuildHook(_ context.Context, _ *rebuildctx.OperationContext, _ rebuildctx.PlatformArgs) error {
	return nil
}

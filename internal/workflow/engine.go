package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ngcli/ng/internal/config"
	"github.com/ngcli/ng/internal/generations"
	"github.com/ngcli/ng/internal/preflight"
	"github.com/ngcli/ng/internal/proc"
	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/style"
)

// ErrUserRejected is returned by Rebuild when ask-confirmation is set and
// the user declines to activate the built configuration.
var ErrUserRejected = errors.New("User rejected the new configuration")

// Engine runs the shared rebuild workflow against a platform Strategy. One
// Engine is constructed per invocation; it holds no state across calls.
type Engine struct {
	// Checks is the pre-flight sequence to run unless NoPreflight is set.
	// Defaults to preflight.CoreChecks() when nil.
	Checks *preflight.Sequence
}

// Rebuild runs the full rebuild workflow: platform pre-hook, shared
// pre-flight checks, optional flake update, toplevel resolution, build,
// diff, optional confirmation (returns ErrUserRejected on rejection),
// activation, optional manual and automatic cleanup, and platform
// post-hook — spec.md §4.7 steps 1 through 11.
func (e *Engine) Rebuild(ctx context.Context, op *rebuildctx.OperationContext, strategy rebuildctx.Strategy, args rebuildctx.PlatformArgs, mode rebuildctx.ActivationMode) error {
	// 1. Platform-specific pre-rebuild hook.
	if err := strategy.PreRebuildHook(ctx, op, args); err != nil {
		return fmt.Errorf("%s pre-rebuild hook: %w", strategy.Name(), err)
	}

	// 2. Shared pre-flight checks.
	if !op.CommonArgs.NoPreflight {
		checks := e.Checks
		if checks == nil {
			c := preflight.CoreChecks()
			checks = &c
		}
		if _, err := checks.Run(ctx, op, strategy, args); err != nil {
			return err
		}
	}

	// 3. Optional flake update.
	if op.UpdateArgs.Update || op.UpdateArgs.UpdateInput != "" {
		if err := updateFlakeInputs(ctx, op); err != nil {
			return fmt.Errorf("updating flake inputs: %w", err)
		}
	}

	// 4. Resolve the toplevel installable.
	toplevel, err := strategy.ToplevelInstallable(ctx, op, args)
	if err != nil {
		return fmt.Errorf("resolving toplevel installable for %s: %w", strategy.Name(), err)
	}

	// 5. Build.
	outLink := op.CommonArgs.OutLink
	if outLink == "" {
		tmp, tmpErr := os.MkdirTemp("", "ng-build-*")
		if tmpErr != nil {
			return fmt.Errorf("creating build output directory: %w", tmpErr)
		}
		outLink = tmp + "/result"
	}

	var builtProfilePath string
	if op.CommonArgs.DryRun && mode == rebuildctx.Build {
		builtProfilePath = ""
	} else {
		builtProfilePath, err = op.NixInterface.Build(ctx, toplevel, outLink, op.CommonArgs.ExtraBuildArgs, !op.CommonArgs.NoNom, op.VerboseCount)
		if err != nil {
			reportBuildFailure(ctx, op, err)
			return fmt.Errorf("building %s configuration: %w", strategy.Name(), err)
		}
	}

	// 6. Show diff.
	if mode != rebuildctx.Build && !op.CommonArgs.DryRun {
		if currentProfile, ok := strategy.CurrentProfilePath(op, args); ok {
			if _, statErr := os.Stat(currentProfile); statErr == nil {
				showPlatformDiff(ctx, currentProfile, builtProfilePath, op.VerboseCount)
			}
		}
	}

	// 7. Optional confirmation, after the build and diff so the user can
	// decide based on what they just saw.
	if op.CommonArgs.AskConfirmation && mode != rebuildctx.Build && !op.CommonArgs.DryRun {
		ok, err := confirmActivation(op)
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			return ErrUserRejected
		}
	}

	// 8. Activate.
	if mode != rebuildctx.Build && !op.CommonArgs.DryRun {
		if err := strategy.Activate(ctx, op, args, builtProfilePath, mode); err != nil {
			return fmt.Errorf("activating %s configuration: %w", strategy.Name(), err)
		}
	}

	// 9. Optional manual cleanup (--clean).
	if op.CommonArgs.CleanAfter && mode != rebuildctx.Build && !op.CommonArgs.DryRun {
		if err := op.NixInterface.GarbageCollect(ctx, op.CommonArgs.DryRun, op.VerboseCount); err != nil {
			// Non-critical: cleanup failing shouldn't fail the rebuild.
			_ = err
		}
		if op.Config != nil && op.Config.AutoClean.RunOptimise {
			_ = op.NixInterface.OptimiseStore(ctx, op.CommonArgs.DryRun, op.VerboseCount)
		}
	}

	// 10. Otherwise, automatic lazy cleanup, if configured.
	if shouldAutoClean(op, mode) {
		autoClean(ctx, op, strategy)
	}

	// 11. Platform-specific post-rebuild hook.
	if err := strategy.PostRebuildHook(ctx, op, args); err != nil {
		return fmt.Errorf("%s post-rebuild hook: %w", strategy.Name(), err)
	}

	return nil
}

func updateFlakeInputs(ctx context.Context, op *rebuildctx.OperationContext) error {
	args := []string{"flake", "update"}
	if op.UpdateArgs.UpdateInput != "" {
		args = append(args, op.UpdateArgs.UpdateInput)
	}
	args = proc.AppendVerbosity(args, op.VerboseCount)

	bin := "nix"
	outcome := proc.RunInherit(ctx, proc.Command(bin, args...))
	switch outcome.(type) {
	case proc.Completed:
		return nil
	default:
		return fmt.Errorf("nix flake update exited non-zero")
	}
}

// confirmActivation prompts the user to accept or reject the built
// configuration. op.In defaults to os.Stdin when unset.
func confirmActivation(op *rebuildctx.OperationContext) (bool, error) {
	in := op.In
	if in == nil {
		in = os.Stdin
	}
	return style.Confirm(in, op.Out, op.Profile, "Activate the new configuration?")
}

func showPlatformDiff(ctx context.Context, currentProfile, newProfile string, verbosity int) {
	args := proc.AppendVerbosity([]string{"diff", currentProfile, newProfile}, verbosity)
	if _, ok := proc.RunInherit(ctx, proc.Command("nvd", args...)).(proc.Completed); !ok {
		slog.Warn("profile diff failed", "new profile", newProfile)
	}
}

// configMode maps the engine's ActivationMode to config's independent
// string-based mirror of the same set, the boundary conversion
// config.ActivationMode's doc comment calls for.
func configMode(mode rebuildctx.ActivationMode) config.ActivationMode {
	switch mode {
	case rebuildctx.Switch:
		return config.ModeSwitch
	case rebuildctx.Boot:
		return config.ModeBoot
	case rebuildctx.TestMode:
		return config.ModeTest
	case rebuildctx.Build:
		return config.ModeBuildOnly
	default:
		return config.ModeSwitch
	}
}

// reportBuildFailure fetches the failed derivation's build log (when nix
// identified one) and reports it with recommendations; otherwise it falls
// back to a bare process-failure report.
func reportBuildFailure(ctx context.Context, op *rebuildctx.OperationContext, buildErr error) {
	if op.Reporter == nil {
		return
	}
	var drvPaths []string
	if be, ok := buildErr.(interface{ FailedDerivations() []string }); ok {
		drvPaths = be.FailedDerivations()
	}
	if len(drvPaths) == 0 {
		op.Reporter.ReportProcessFailure("Build", "build failed", buildErr.Error(), nil)
		return
	}
	for _, drv := range drvPaths {
		log, err := op.NixInterface.FetchBuildLog(ctx, drv, op.VerboseCount)
		if err != nil {
			op.Reporter.ReportProcessFailure("Build", "build failed for "+drv, buildErr.Error(), nil)
			continue
		}
		op.Reporter.ReportBuildFailureLog(drv, log)
	}
}

// shouldAutoClean reports whether step 10's automatic cleanup applies:
// auto-clean must be enabled and configured to fire for this mode, manual
// cleanup (step 9, --clean) must not have already run, and --dry-run must
// be off (a dry run performs no destructive cleanup of any kind).
func shouldAutoClean(op *rebuildctx.OperationContext, mode rebuildctx.ActivationMode) bool {
	if op.CommonArgs.CleanAfter || op.CommonArgs.DryRun || op.Config == nil {
		return false
	}
	return op.Config.AutoClean.Enabled && op.Config.OnSuccessForMode(configMode(mode))
}

// autoClean trims generations down to the configured keep-count/keep-days
// window. It never fails the rebuild — a cleanup problem is logged as a
// warning and swallowed.
func autoClean(ctx context.Context, op *rebuildctx.OperationContext, strategy rebuildctx.Strategy) {
	pd, ok := strategy.(interface {
		ProfileDirs() (string, string, bool)
	})
	if !ok {
		return
	}
	dir, current, has := pd.ProfileDirs()
	if !has {
		return
	}

	gens, err := generations.List(dir, current)
	if err != nil {
		slog.Warn("auto-clean: listing generations failed", "dir", dir, "err", err)
		return
	}

	plan := generations.Plan(gens, op.Config.AutoClean.KeepCount, op.Config.AutoClean.KeepDays, time.Now())
	for _, err := range generations.Apply(plan) {
		slog.Warn("auto-clean: removing generation failed", "err", err)
	}

	if op.Config.AutoClean.RunGC {
		if err := op.NixInterface.GarbageCollect(ctx, false, op.VerboseCount); err != nil {
			slog.Warn("auto-clean: garbage collection failed", "err", err)
		}
	}
	if op.Config.AutoClean.RunOptimise {
		if err := op.NixInterface.OptimiseStore(ctx, false, op.VerboseCount); err != nil {
			slog.Warn("auto-clean: store optimisation failed", "err", err)
		}
	}
}

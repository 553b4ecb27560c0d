package preflight

import (
	"context"

	"github.com/ngcli/ng/internal/rebuildctx"
)

// DryBuild asks nix to resolve and print what would be built, without
// realizing any derivation. It only runs under full checks — it's the
// most expensive pre-flight step since it touches the binary cache.
type DryBuild struct{}

func (DryBuild) Name() string { return "Dry-Run Build" }

func (c DryBuild) Run(ctx context.Context, op *rebuildctx.OperationContext, _ rebuildctx.Strategy, _ rebuildctx.PlatformArgs) (Status, error) {
	if !op.CommonArgs.FullChecks {
		return Passed, nil
	}
	if op.NixInterface == nil {
		return Passed, nil
	}

	if err := op.NixInterface.DryRunBuild(ctx, op.CommonArgs.Installable, op.VerboseCount); err != nil {
		if op.Reporter != nil {
			op.Reporter.ReportProcessFailure(c.Name(), "dry-run build failed", err.Error(), nil)
		}
		return FailedCritical, nil
	}
	return Passed, nil
}

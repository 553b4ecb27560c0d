package preflight

import (
	"context"

	"github.com/ngcli/ng/internal/rebuildctx"
)

// Eval evaluates the target installable without building it. It only runs
// when the operation requested medium or full checks — a plain rebuild
// skips straight to Build, which performs an equivalent evaluation anyway.
type Eval struct{}

func (Eval) Name() string { return "Nix Evaluation" }

func (c Eval) Run(ctx context.Context, op *rebuildctx.OperationContext, _ rebuildctx.Strategy, _ rebuildctx.PlatformArgs) (Status, error) {
	if !op.CommonArgs.MediumChecks && !op.CommonArgs.FullChecks {
		return Passed, nil
	}
	if op.NixInterface == nil {
		return Passed, nil
	}

	if _, err := op.NixInterface.EvaluateJSON(ctx, op.CommonArgs.Installable, op.VerboseCount); err != nil {
		if op.Reporter != nil {
			op.Reporter.ReportProcessFailure(c.Name(), "evaluation failed", err.Error(), nil)
		}
		return FailedCritical, nil
	}
	return Passed, nil
}

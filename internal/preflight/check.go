// Package preflight implements the ordered, composable check sequence run
// before a rebuild: version-control warnings, parse, lint, eval, and
// dry-build, each contributing to a single aggregated CheckStatus.
package preflight

import (
	"context"
	"fmt"

	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/style"
)

// Check is one pre-flight step. It receives the full operation context so
// it can read common flags (strict mode, check level) and the resolved
// strategy/platform args so platform-specific checks (none of the standard
// ones need it today) can specialize.
type Check interface {
	Name() string
	Run(ctx context.Context, op *rebuildctx.OperationContext, strategy rebuildctx.Strategy, args rebuildctx.PlatformArgs) (Status, error)
}

// Sequence runs a list of checks in order, aggregating their status and
// halting as soon as one reports FailedCritical.
type Sequence struct {
	Checks []Check
}

// Run executes every check in order. It returns the aggregated status and,
// if a check either errored or failed critically, a non-nil error
// describing which one and why — the check itself is responsible for
// reporting the diagnostic detail through op.Reporter before returning.
func (s Sequence) Run(ctx context.Context, op *rebuildctx.OperationContext, strategy rebuildctx.Strategy, args rebuildctx.PlatformArgs) (Status, error) {
	overall := Passed

	for _, c := range s.Checks {
		var spinner *style.Spinner
		if op.Profile != nil && op.Out != nil {
			spinner = style.StartSpinner(op.Out, op.Profile, fmt.Sprintf("[pre-flight] %s", c.Name()))
		}

		status, err := c.Run(ctx, op, strategy, args)
		if err != nil {
			if spinner != nil {
				spinner.Fail(c.Name())
			}
			return Max(overall, FailedCritical), fmt.Errorf("pre-flight check %q: %w", c.Name(), err)
		}

		overall = Max(overall, status)

		switch status {
		case Passed:
			if spinner != nil {
				spinner.Success(fmt.Sprintf("%s passed", c.Name()))
			}
		case PassedWithWarnings:
			if spinner != nil {
				spinner.Success(fmt.Sprintf("%s passed with warnings", c.Name()))
			}
		case FailedCritical:
			if spinner != nil {
				spinner.Fail(c.Name())
			}
			return overall, fmt.Errorf("critical pre-flight check %q failed", c.Name())
		}
	}

	return overall, nil
}

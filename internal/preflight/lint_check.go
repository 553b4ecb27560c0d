package preflight

import (
	"context"
	"os"
	"os/exec"

	"github.com/ngcli/ng/internal/analyzer"
	"github.com/ngcli/ng/internal/proc"
	"github.com/ngcli/ng/internal/rebuildctx"
)

// formatterPreference is the fixed search order for an available Nix
// formatter, matching original_source/src/lint.rs's ["alejandra",
// "nixpkgs-fmt", "nixfmt"] preference list.
var formatterPreference = []string{"alejandra", "nixpkgs-fmt", "nixfmt"}

// Lint runs the Analyzer's semantic pass (unresolved identifiers, unused
// let-bindings) over every .nix file under Dir, and attempts an external
// formatter in fixed preference order if one is on PATH. Semantic findings
// are only critical when StrictLint is set; otherwise they downgrade the
// check to PassedWithWarnings. A missing or failing formatter is never
// critical — it just means nothing got auto-formatted.
type Lint struct {
	// Dir defaults to "." when empty.
	Dir string
}

func (Lint) Name() string { return "Lint" }

func (c Lint) Run(ctx context.Context, op *rebuildctx.OperationContext, _ rebuildctx.Strategy, _ rebuildctx.PlatformArgs) (Status, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}

	files, err := findNixFiles(dir)
	if err != nil {
		return FailedCritical, err
	}

	status := Passed
	if len(files) > 0 {
		status = runSemanticPass(op, c.Name(), files)
	}

	if fmtStatus := runFormatter(ctx, files, op.VerboseCount); fmtStatus == PassedWithWarnings {
		status = Max(status, PassedWithWarnings)
	}

	strict := op.CommonArgs.StrictLint != nil && *op.CommonArgs.StrictLint
	if status == FailedCritical && !strict {
		status = PassedWithWarnings
	}

	return status, nil
}

func runSemanticPass(op *rebuildctx.OperationContext, checkName string, files []string) Status {
	db := analyzer.NewDB()
	var allDiags []analyzer.Diagnostic

	for _, path := range files {
		text, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		id, syntaxDiags := db.RegisterAndParse(path, string(text))
		if len(syntaxDiags) > 0 {
			// Syntax errors are Parse's job to report; skip semantic
			// analysis on a file that didn't parse cleanly.
			continue
		}
		allDiags = append(allDiags, db.SemanticDiagnostics(id)...)
	}

	if len(allDiags) == 0 {
		return Passed
	}
	if op.Reporter != nil {
		op.Reporter.Report(checkName, allDiags, db)
	}
	return FailedCritical
}

func runFormatter(ctx context.Context, files []string, verbosity int) Status {
	if len(files) == 0 {
		return Passed
	}

	var formatter string
	for _, name := range formatterPreference {
		if _, err := exec.LookPath(name); err == nil {
			formatter = name
			break
		}
	}
	if formatter == "" {
		return Passed
	}

	args := proc.AppendVerbosity(append([]string{}, files...), verbosity)
	outcome := proc.RunCapture(ctx, proc.Command(formatter, args...))
	if _, ok := outcome.(proc.Completed); ok {
		return Passed
	}
	return PassedWithWarnings
}

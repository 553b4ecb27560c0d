package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ngcli/ng/internal/rebuildctx"
)

type fakeCheck struct {
	name   string
	status Status
	err    error
	calls  *int
}

func (f fakeCheck) Name() string { return f.name }

func (f fakeCheck) Run(ctx context.Context, op *rebuildctx.OperationContext, strategy rebuildctx.Strategy, args rebuildctx.PlatformArgs) (Status, error) {
	if f.calls != nil {
		*f.calls++
	}
	return f.status, f.err
}

func TestSequenceAggregationIsMaxSeverity(t *testing.T) {
	seq := Sequence{Checks: []Check{
		fakeCheck{name: "a", status: Passed},
		fakeCheck{name: "b", status: PassedWithWarnings},
		fakeCheck{name: "c", status: Passed},
	}}

	status, err := seq.Run(context.Background(), &rebuildctx.OperationContext{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != PassedWithWarnings {
		t.Fatalf("expected PassedWithWarnings, got %v", status)
	}
}

func TestSequenceHaltsOnCritical(t *testing.T) {
	var calls int
	seq := Sequence{Checks: []Check{
		fakeCheck{name: "a", status: FailedCritical},
		fakeCheck{name: "b", status: Passed, calls: &calls},
	}}

	_, err := seq.Run(context.Background(), &rebuildctx.OperationContext{}, nil, nil)
	if err == nil {
		t.Fatalf("expected error on critical failure")
	}
	if calls != 0 {
		t.Fatalf("expected check after critical failure to be skipped, got %d calls", calls)
	}
}

func TestParseCheckCleanFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.nix"), []byte("{ foo = 1; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	status, err := (Parse{Dir: dir}).Run(context.Background(), &rebuildctx.OperationContext{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Passed {
		t.Fatalf("expected Passed, got %v", status)
	}
}

func TestParseCheckSyntaxError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.nix"), []byte("{ foo = "), 0o644); err != nil {
		t.Fatal(err)
	}

	status, err := (Parse{Dir: dir}).Run(context.Background(), &rebuildctx.OperationContext{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != FailedCritical {
		t.Fatalf("expected FailedCritical, got %v", status)
	}
}

func TestParseCheckNoFiles(t *testing.T) {
	dir := t.TempDir()
	status, err := (Parse{Dir: dir}).Run(context.Background(), &rebuildctx.OperationContext{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Passed {
		t.Fatalf("expected Passed for empty directory, got %v", status)
	}
}

func TestEvalCheckSkippedWithoutMediumOrFullChecks(t *testing.T) {
	op := &rebuildctx.OperationContext{}
	status, err := (Eval{}).Run(context.Background(), op, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Passed {
		t.Fatalf("expected Passed (skipped), got %v", status)
	}
}

func TestDryBuildSkippedWithoutFullChecks(t *testing.T) {
	op := &rebuildctx.OperationContext{}
	status, err := (DryBuild{}).Run(context.Background(), op, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Passed {
		t.Fatalf("expected Passed (skipped), got %v", status)
	}
}

func TestStatusMax(t *testing.T) {
	if Max(Passed, PassedWithWarnings) != PassedWithWarnings {
		t.Fatalf("expected PassedWithWarnings")
	}
	if Max(FailedCritical, PassedWithWarnings) != FailedCritical {
		t.Fatalf("expected FailedCritical")
	}
}

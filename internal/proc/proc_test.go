package proc

import (
	"context"
	"testing"
)

func TestRunCaptureCompleted(t *testing.T) {
	out := RunCapture(context.Background(), Command("sh", "-c", "echo hi"))
	c, ok := out.(Completed)
	if !ok {
		t.Fatalf("expected Completed, got %T", out)
	}
	if !c.Success() {
		t.Fatalf("expected success")
	}
	if c.Stdout != "hi\n" {
		t.Fatalf("unexpected stdout: %q", c.Stdout)
	}
}

func TestRunCaptureNonZeroExit(t *testing.T) {
	out := RunCapture(context.Background(), Command("sh", "-c", "echo oops 1>&2; exit 3"))
	n, ok := out.(NonZeroExit)
	if !ok {
		t.Fatalf("expected NonZeroExit, got %T", out)
	}
	if n.Status != "3" {
		t.Fatalf("expected status 3, got %s", n.Status)
	}
	if n.Stderr != "oops\n" {
		t.Fatalf("unexpected stderr: %q", n.Stderr)
	}
}

func TestRunCaptureSpawnFailed(t *testing.T) {
	out := RunCapture(context.Background(), Command("this-binary-does-not-exist-ng"))
	if _, ok := out.(SpawnFailed); !ok {
		t.Fatalf("expected SpawnFailed, got %T", out)
	}
}

func TestRunInheritNonZeroExit(t *testing.T) {
	out := RunInherit(context.Background(), Command("sh", "-c", "exit 7"))
	i, ok := out.(InheritedNonZeroExit)
	if !ok {
		t.Fatalf("expected InheritedNonZeroExit, got %T", out)
	}
	if i.Status != "7" {
		t.Fatalf("expected status 7, got %s", i.Status)
	}
}

func TestRunPiped(t *testing.T) {
	out := RunPiped(context.Background(),
		Command("printf", "a\nb\nc\n"),
		Command("sort", "-r"),
	)
	c, ok := out.(Completed)
	if !ok {
		t.Fatalf("expected Completed, got %T: %+v", out, out)
	}
	if c.Stdout != "c\nb\na\n" {
		t.Fatalf("unexpected piped stdout: %q", c.Stdout)
	}
}

func TestAppendVerbositySaturates(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 100} {
		args := AppendVerbosity(nil, n)
		want := n
		if want > MaxVerbosityFlags {
			want = MaxVerbosityFlags
		}
		if len(args) != want {
			t.Fatalf("AppendVerbosity(%d): got %d flags, want %d", n, len(args), want)
		}
	}
}

func TestSpecString(t *testing.T) {
	s := Command("nix", "build", "--out-link", "result", "a value")
	got := s.String()
	want := `nix build --out-link result "a value"`
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

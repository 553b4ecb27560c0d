package style

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewProfileNonTTYSuppressesColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfile(&buf)
	if p.IsTTY() {
		t.Fatalf("a bytes.Buffer is never a TTY")
	}
	out := p.Error("boom")
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes for non-tty profile, got %q", out)
	}
	if !strings.Contains(out, "boom") {
		t.Fatalf("expected text preserved, got %q", out)
	}
}

func TestSpinnerNonTTYPrintsOnce(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfile(&buf)
	s := StartSpinner(&buf, p, "working")
	s.Success("done")
	out := buf.String()
	if !strings.Contains(out, "working") || !strings.Contains(out, "done") {
		t.Fatalf("expected both messages in output, got %q", out)
	}
}

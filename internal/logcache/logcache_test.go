package logcache

import (
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drv := "/nix/store/abc-example.drv"
	if err := c.Put(drv, "build log contents"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log, ok, err := c.Get(drv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if log != "build log contents" {
		t.Fatalf("unexpected log content: %q", log)
	}
}

func TestGetMiss(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, ok, err := c.Get("/nix/store/nonexistent.drv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
}

func TestHas(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	drv := "/nix/store/xyz.drv"
	if c.Has(drv) {
		t.Fatalf("expected no entry yet")
	}
	if err := c.Put(drv, "log"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Has(drv) {
		t.Fatalf("expected entry to exist after Put")
	}
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := Key("/nix/store/a.drv")
	b := Key("/nix/store/b.drv")
	if a == b {
		t.Fatalf("expected distinct keys for distinct derivations")
	}
	if Key("/nix/store/a.drv") != a {
		t.Fatalf("expected Key to be deterministic")
	}
}

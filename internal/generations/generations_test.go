package generations

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNumberFromDirName(t *testing.T) {
	cases := map[string]int{
		"system-42-link": 42,
		"home-manager-7": 7,
	}
	for name, want := range cases {
		got, ok := numberFromDirName(name)
		if !ok || got != want {
			t.Fatalf("numberFromDirName(%q) = %d,%v want %d", name, got, ok, want)
		}
	}
	if _, ok := numberFromDirName("not-a-generation"); ok {
		t.Fatalf("expected numberFromDirName to fail on non-numeric suffix")
	}
}

func TestListAndDescribe(t *testing.T) {
	dir := t.TempDir()
	mk := func(name string) string {
		p := filepath.Join(dir, name)
		if err := os.Mkdir(p, 0o755); err != nil {
			t.Fatal(err)
		}
		return p
	}

	g1 := mk("system-1-link")
	g2 := mk("system-2-link")
	_ = mk("unrelated-dir")

	current := filepath.Join(dir, "current")
	if err := os.Symlink(g2, current); err != nil {
		t.Fatal(err)
	}

	gens, err := List(dir, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gens) != 2 {
		t.Fatalf("expected 2 generations, got %d: %+v", len(gens), gens)
	}
	if gens[0].Number != 1 || gens[1].Number != 2 {
		t.Fatalf("expected ascending order by number, got %+v", gens)
	}
	if !gens[1].Current {
		t.Fatalf("expected generation 2 to be current")
	}
	if gens[0].Current {
		t.Fatalf("expected generation 1 to not be current")
	}
	_ = g1
}

func TestPlanKeepsCurrentRegardlessOfCount(t *testing.T) {
	now := time.Now()
	gens := []Info{
		{Number: 1, BuildDate: now.AddDate(0, 0, -30)},
		{Number: 2, BuildDate: now.AddDate(0, 0, -20)},
		{Number: 3, BuildDate: now, Current: true},
	}

	plan := Plan(gens, 1, 0, now)
	if len(plan.Keep) != 1 || plan.Keep[0].Number != 3 {
		t.Fatalf("expected only current generation kept, got %+v", plan.Keep)
	}
	if len(plan.Remove) != 2 {
		t.Fatalf("expected 2 removed, got %+v", plan.Remove)
	}
}

func TestPlanRespectsKeepDays(t *testing.T) {
	now := time.Now()
	gens := []Info{
		{Number: 1, BuildDate: now.AddDate(0, 0, -40)},
		{Number: 2, BuildDate: now.AddDate(0, 0, -5)},
	}

	plan := Plan(gens, 10, 14, now)
	if len(plan.Keep) != 1 || plan.Keep[0].Number != 2 {
		t.Fatalf("expected only recent generation kept, got %+v", plan.Keep)
	}
	if len(plan.Remove) != 1 || plan.Remove[0].Number != 1 {
		t.Fatalf("expected generation 1 removed, got %+v", plan.Remove)
	}
}

package target

import "testing"

func TestTargetToArgsFlake(t *testing.T) {
	tg := Flake("w", []string{"x", "y.z"})
	args := tg.ToArgs()
	if len(args) != 1 || args[0] != `w#x."y.z"` {
		t.Fatalf("got %#v", args)
	}
}

func TestTargetToArgsFile(t *testing.T) {
	tg := File("w", []string{"x", "y.z"})
	args := tg.ToArgs()
	want := []string{"--file", "w", `x."y.z"`}
	if len(args) != len(want) {
		t.Fatalf("got %#v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("got %#v, want %#v", args, want)
		}
	}
}

func TestTargetToArgsStore(t *testing.T) {
	tg := Store("/nix/store/abc-foo")
	args := tg.ToArgs()
	if len(args) != 1 || args[0] != "/nix/store/abc-foo" {
		t.Fatalf("got %#v", args)
	}
}

func TestResolveFlakeWithAttribute(t *testing.T) {
	tg, err := Resolve(".#nixosConfigurations.host", "", "", Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tg.Kind != KindFlake || tg.Reference != "." {
		t.Fatalf("got %#v", tg)
	}
	want := []string{"nixosConfigurations", "host"}
	if len(tg.Attribute) != len(want) {
		t.Fatalf("got attr %#v", tg.Attribute)
	}
	for i := range want {
		if tg.Attribute[i] != want[i] {
			t.Fatalf("got attr %#v", tg.Attribute)
		}
	}
}

func TestResolveEnvFallbackCommandSpecific(t *testing.T) {
	env := Env{
		CurrentCommand: "os",
		OSFlake:        "github:me/conf#hostA",
		Flake:          "github:me/generic#hostB",
	}
	tg, err := Resolve("", "", "", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tg.Reference != "github:me/conf" {
		t.Fatalf("expected command-specific flake to win, got %#v", tg)
	}
}

func TestResolveEnvFallbackGeneric(t *testing.T) {
	env := Env{Flake: "github:me/generic#hostB"}
	tg, err := Resolve("", "", "", env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tg.Reference != "github:me/generic" {
		t.Fatalf("got %#v", tg)
	}
}

func TestResolveNoFallbackErrors(t *testing.T) {
	if _, err := Resolve("", "", "", Env{}); err == nil {
		t.Fatalf("expected error when nothing is set")
	}
}

func TestWithSuffix(t *testing.T) {
	tg := Flake(".", []string{"nixosConfigurations", "host"})
	tg = tg.WithSuffix([]string{"config", "system", "build", "toplevel"})
	want := []string{"nixosConfigurations", "host", "config", "system", "build", "toplevel"}
	if len(tg.Attribute) != len(want) {
		t.Fatalf("got %#v", tg.Attribute)
	}
	for i := range want {
		if tg.Attribute[i] != want[i] {
			t.Fatalf("got %#v", tg.Attribute)
		}
	}
}

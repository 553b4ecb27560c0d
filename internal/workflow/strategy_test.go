package workflow

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/target"
)

func TestOsToplevelInstallableUsesGivenHostname(t *testing.T) {
	op := &rebuildctx.OperationContext{
		CommonArgs: rebuildctx.CommonRebuildArgs{Installable: target.Flake(".", nil)},
	}
	got, err := OsStrategy{}.ToplevelInstallable(context.Background(), op, OsArgs{Hostname: "myhost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"nixosConfigurations", "myhost", "config", "system", "build", "toplevel"}
	if !equalSlices(got.Attribute, want) {
		t.Fatalf("got attribute %v, want %v", got.Attribute, want)
	}
}

func TestOsToplevelInstallableHonorsSpecialisation(t *testing.T) {
	op := &rebuildctx.OperationContext{
		CommonArgs: rebuildctx.CommonRebuildArgs{Installable: target.Flake(".", nil)},
	}
	got, err := OsStrategy{}.ToplevelInstallable(context.Background(), op, OsArgs{Hostname: "myhost", Specialisation: "gaming"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"nixosConfigurations", "myhost", "specialisation", "gaming", "config", "system", "build", "toplevel"}
	if !equalSlices(got.Attribute, want) {
		t.Fatalf("got attribute %v, want %v", got.Attribute, want)
	}
}

func TestOsToplevelInstallableRespectsExplicitAttribute(t *testing.T) {
	explicit := target.Flake(".", []string{"foo", "bar"})
	op := &rebuildctx.OperationContext{
		CommonArgs: rebuildctx.CommonRebuildArgs{Installable: explicit},
	}
	got, err := OsStrategy{}.ToplevelInstallable(context.Background(), op, OsArgs{Hostname: "myhost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalSlices(got.Attribute, []string{"foo", "bar"}) {
		t.Fatalf("expected explicit attribute to be preserved unchanged, got %v", got.Attribute)
	}
}

func TestOsPreRebuildHookRejectsRootWithoutBypass(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("only meaningful when run as root")
	}
	err := OsStrategy{}.PreRebuildHook(context.Background(), &rebuildctx.OperationContext{}, OsArgs{})
	if err == nil {
		t.Fatalf("expected an error when running as root without BypassRootCheck")
	}
}

func TestDarwinCurrentProfilePathReportsUnsupported(t *testing.T) {
	_, ok := DarwinStrategy{}.CurrentProfilePath(&rebuildctx.OperationContext{}, DarwinArgs{})
	if ok {
		t.Fatalf("expected darwin strategy to report no stable current profile path")
	}
}

func TestDarwinActivateRejectsNonSwitchModes(t *testing.T) {
	for _, mode := range []rebuildctx.ActivationMode{rebuildctx.Boot, rebuildctx.TestMode} {
		err := DarwinStrategy{}.Activate(context.Background(), &rebuildctx.OperationContext{}, DarwinArgs{}, "/nix/store/fake", mode)
		if err == nil {
			t.Fatalf("expected mode %v to be rejected", mode)
		}
	}
}

func TestHomeActivateAppendsSpecialisationPath(t *testing.T) {
	err := HomeStrategy{}.Activate(context.Background(), &rebuildctx.OperationContext{}, HomeArgs{Specialisation: "work"}, "/nix/store/fake-home", rebuildctx.Switch)
	// The activation itself will fail to spawn a nonexistent binary; what
	// matters here is that it attempted the specialisation subpath rather
	// than erroring out before trying, which a non-spawn-failure error
	// would indicate.
	if err == nil {
		t.Fatalf("expected activation of a nonexistent path to fail")
	}
	if !strings.Contains(err.Error(), "activate") {
		t.Fatalf("expected a proc-level activation error, got: %v", err)
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

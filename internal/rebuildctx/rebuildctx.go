// Package rebuildctx holds the types shared between internal/workflow and
// internal/preflight: OperationContext, the Strategy contract, and the
// platform-rebuild argument structs. It exists only to break the cycle that
// would otherwise form between those two packages — workflow.Engine.Rebuild
// calls into preflight.Sequence.Run, while a preflight.Check needs the same
// OperationContext and Strategy types workflow defines — so neither package
// imports the other for them; both import rebuildctx instead.
package rebuildctx

import (
	"context"
	"io"

	"github.com/ngcli/ng/internal/config"
	"github.com/ngcli/ng/internal/diagnostic"
	"github.com/ngcli/ng/internal/nix"
	"github.com/ngcli/ng/internal/style"
	"github.com/ngcli/ng/internal/target"
)

// ActivationMode selects how a built configuration is applied.
type ActivationMode int

const (
	// Switch activates and makes the new generation the boot default.
	Switch ActivationMode = iota
	// Boot prepares the new generation for the next boot without
	// activating it immediately.
	Boot
	// TestMode activates without making it the boot default.
	TestMode
	// Build only builds; nothing is activated.
	Build
)

func (m ActivationMode) String() string {
	switch m {
	case Switch:
		return "switch"
	case Boot:
		return "boot"
	case TestMode:
		return "test"
	case Build:
		return "build"
	default:
		return "unknown"
	}
}

// CommonRebuildArgs centralizes the flags shared by every rebuild-like
// subcommand (os/home/darwin), parsed once at the cobra layer.
type CommonRebuildArgs struct {
	Installable     target.Target
	NoPreflight     bool
	StrictLint      *bool
	StrictFormat    *bool
	MediumChecks    bool
	FullChecks      bool
	DryRun          bool
	AskConfirmation bool
	NoNom           bool
	OutLink         string
	CleanAfter      bool
	ExtraBuildArgs  []string
}

// UpdateArgs controls the optional flake-input update step.
type UpdateArgs struct {
	Update      bool
	UpdateInput string
}

// OperationContext is a read-only bundle of borrowed collaborators built
// once per invocation and threaded through the workflow and its checks; it
// is never retained past the call it was constructed for.
type OperationContext struct {
	CommonArgs   CommonRebuildArgs
	UpdateArgs   UpdateArgs
	VerboseCount int

	NixInterface *nix.Interface
	Config       *config.NgConfig
	Reporter     *diagnostic.Reporter
	Profile      *style.Profile
	Out          io.Writer
	// In is read for the ask-confirmation prompt. Callers that leave it
	// nil get os.Stdin at the point of use.
	In io.Reader
}

// PlatformArgs carries strategy-specific flags (e.g. --specialisation for
// os/darwin) opaquely through the shared Engine and Check code. Each
// Strategy implementation knows its own concrete type and asserts it back
// out; this stands in for the per-strategy associated type the original
// trait used, which Go's non-generic interfaces can't express directly.
type PlatformArgs any

// Strategy is the platform-specific half of a rebuild: how to resolve the
// toplevel installable, where the current profile lives, and how to
// activate a freshly built one. OS, home-manager, and darwin each provide
// one implementation.
type Strategy interface {
	Name() string

	// PreRebuildHook runs platform checks (e.g. refusing to run as root) before any
	// shared pre-flight check.
	PreRebuildHook(ctx context.Context, op *OperationContext, args PlatformArgs) error

	// ToplevelInstallable resolves the final build target, folding in
	// hostname, user-specified attribute, and specialisation handling.
	ToplevelInstallable(ctx context.Context, op *OperationContext, args PlatformArgs) (target.Target, error)

	// CurrentProfilePath returns the path to diff the new build against,
	// and false if there is none to diff against.
	CurrentProfilePath(op *OperationContext, args PlatformArgs) (string, bool)

	// Activate switches, boots, or tests the built profile.
	Activate(ctx context.Context, op *OperationContext, args PlatformArgs, builtProfilePath string, mode ActivationMode) error

	PostRebuildHook(ctx context.Context, op *OperationContext, args PlatformArgs) error
}

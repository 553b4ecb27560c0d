package preflight

import (
	"context"
	"log/slog"

	"github.com/ngcli/ng/internal/rebuildctx"
	"github.com/ngcli/ng/internal/vcs"
)

// VCSWarning flags uncommitted changes or untracked .nix files, since a
// flake build only sees what git has staged or committed — a config
// change sitting only in the working tree silently won't be built.
type VCSWarning struct {
	// Dir defaults to "." when empty.
	Dir string
}

func (VCSWarning) Name() string { return "Version Control" }

func (c VCSWarning) Run(ctx context.Context, op *rebuildctx.OperationContext, _ rebuildctx.Strategy, _ rebuildctx.PlatformArgs) (Status, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}

	st, err := vcs.Inspect(ctx, dir)
	if err != nil {
		return Passed, nil // a broken git binary shouldn't block a rebuild
	}
	if !st.IsRepo {
		slog.Debug("vcs check: not a git repository, skipping")
		return Passed, nil
	}
	if !st.Dirty() {
		return Passed, nil
	}

	if len(st.UntrackedNix) > 0 {
		slog.Warn("untracked .nix files present; a flake build will not see them", "files", st.UntrackedNix)
	}
	if len(st.DirtyFiles) > 0 {
		slog.Warn("uncommitted changes present", "files", st.DirtyFiles)
	}
	return PassedWithWarnings, nil
}

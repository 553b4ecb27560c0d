// Package vcs wraps the git status queries used by the version-control
// pre-flight check. It shells out through internal/proc the same way
// internal/nix does, rather than linking a git library.
package vcs

import (
	"context"
	"strings"

	"github.com/ngcli/ng/internal/proc"
)

// Status summarizes the working tree state relevant to a rebuild: whether
// it is a git repository at all, and what it would lose if nix's flake
// evaluator (which only sees tracked/staged content) were run right now.
type Status struct {
	IsRepo       bool
	DirtyFiles   []string
	UntrackedNix []string
}

// Dirty reports whether there is anything the pre-flight check should warn
// about: uncommitted changes or untracked .nix files that a flake build
// would silently ignore.
func (s Status) Dirty() bool {
	return len(s.DirtyFiles) > 0 || len(s.UntrackedNix) > 0
}

// Inspect runs `git status --porcelain` and `git ls-files --others
// --exclude-standard` against dir. A directory that isn't a git repository
// at all is not an error — it just reports IsRepo=false so the caller can
// decide how to treat it.
func Inspect(ctx context.Context, dir string) (Status, error) {
	porcelain, err := runGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		if isNotARepo(err) {
			return Status{IsRepo: false}, nil
		}
		return Status{}, err
	}

	var dirty []string
	for _, line := range strings.Split(porcelain, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		dirty = append(dirty, strings.TrimSpace(line[3:]))
	}

	untrackedRaw, err := runGit(ctx, dir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return Status{}, err
	}
	var untrackedNix []string
	for _, line := range strings.Split(untrackedRaw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasSuffix(line, ".nix") {
			untrackedNix = append(untrackedNix, line)
		}
	}

	return Status{IsRepo: true, DirtyFiles: dirty, UntrackedNix: untrackedNix}, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	spec := proc.Command("git", args...).WithDir(dir)
	outcome := proc.RunCapture(ctx, spec)
	switch o := outcome.(type) {
	case proc.Completed:
		return o.Stdout, nil
	case proc.NonZeroExit:
		return "", &gitError{stderr: o.Stderr, status: o.Status}
	case proc.SpawnFailed:
		return "", &gitError{stderr: o.Err, status: "spawn-failed"}
	default:
		return "", &gitError{stderr: "unexpected outcome", status: "unknown"}
	}
}

type gitError struct {
	stderr string
	status string
}

func (e *gitError) Error() string {
	return "git exited " + e.status + ": " + e.stderr
}

func isNotARepo(err error) bool {
	ge, ok := err.(*gitError)
	if !ok {
		return false
	}
	return strings.Contains(ge.stderr, "not a git repository")
}

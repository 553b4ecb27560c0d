package proc

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// RunCapture runs cmd with both output streams captured, never letting them
// reach the user's terminal directly. It always logs the command at debug
// level before spawning (spec.md §4.1).
func RunCapture(ctx context.Context, cmd Spec) Outcome {
	slog.Debug("run-capture", "cmd", cmd.String())

	c := cmd.toExecCmd()
	c = withContext(ctx, c, cmd)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return NonZeroExit{
				Cmd:    cmd.String(),
				Status: exitStatusString(exitErr),
				Stdout: stdout.String(),
				Stderr: stderr.String(),
			}
		}
		return SpawnFailed{Cmd: cmd.String(), Err: err.Error()}
	}

	return Completed{Cmd: cmd.String(), Status: 0, Stdout: stdout.String(), Stderr: stderr.String()}
}

// RunInherit runs cmd with stdin/stdout/stderr wired directly to the
// process's own, so the child's output streams line-buffer straight to the
// user's terminal.
func RunInherit(ctx context.Context, cmd Spec) Outcome {
	slog.Debug("run-inherit", "cmd", cmd.String())

	c := cmd.toExecCmd()
	c = withContext(ctx, c, cmd)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	err := c.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return InheritedNonZeroExit{Cmd: cmd.String(), Status: exitStatusString(exitErr)}
		}
		return SpawnFailed{Cmd: cmd.String(), Err: err.Error()}
	}

	return Completed{Cmd: cmd.String(), Status: 0}
}

// RunPiped runs a with its stdout wired into b's stdin, and returns b's
// outcome. If a fails to spawn, that failure is reported in a's command
// context rather than b's.
func RunPiped(ctx context.Context, a, b Spec) Outcome {
	slog.Debug("run-piped", "a", a.String(), "b", b.String())

	ca := a.toExecCmd()
	ca = withContext(ctx, ca, a)
	cb := b.toExecCmd()
	cb = withContext(ctx, cb, b)

	pr, pw, err := os.Pipe()
	if err != nil {
		return SpawnFailed{Cmd: a.String() + " | " + b.String(), Err: err.Error()}
	}
	ca.Stdout = pw
	var aStderr bytes.Buffer
	ca.Stderr = &aStderr

	cb.Stdin = pr
	var bStdout, bStderr bytes.Buffer
	cb.Stdout = &bStdout
	cb.Stderr = &bStderr

	if err := ca.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return SpawnFailed{Cmd: a.String(), Err: err.Error()}
	}
	if err := cb.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		_ = ca.Wait()
		return SpawnFailed{Cmd: b.String(), Err: err.Error()}
	}

	aErr := ca.Wait()
	_ = pw.Close()
	bErr := cb.Wait()
	_ = pr.Close()

	if aErr != nil {
		if _, ok := aErr.(*exec.ExitError); !ok {
			return SpawnFailed{Cmd: a.String(), Err: aErr.Error()}
		}
		// a exited non-zero; still let b's outcome win below, since b is
		// the command the caller actually cares about (e.g. the monitor).
	}

	combinedCmd := a.String() + " | " + b.String()
	if bErr != nil {
		if exitErr, ok := bErr.(*exec.ExitError); ok {
			return NonZeroExit{
				Cmd:    combinedCmd,
				Status: exitStatusString(exitErr),
				Stdout: bStdout.String(),
				Stderr: bStderr.String(),
			}
		}
		return SpawnFailed{Cmd: b.String(), Err: bErr.Error()}
	}

	return Completed{Cmd: combinedCmd, Status: 0, Stdout: bStdout.String(), Stderr: bStderr.String()}
}

func withContext(ctx context.Context, c *exec.Cmd, spec Spec) *exec.Cmd {
	if ctx == nil {
		return c
	}
	nc := exec.CommandContext(ctx, spec.Path, spec.Args...)
	nc.Dir = c.Dir
	nc.Env = c.Env
	return nc
}

func exitStatusString(err *exec.ExitError) string {
	code := err.ExitCode()
	if code < 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", code)
}

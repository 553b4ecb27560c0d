package proc

import "os"

// MaxVerbosityFlags is the saturation point for stacked "-v" flags, per
// spec.md §3's 0..=7 verbosity counter.
const MaxVerbosityFlags = 7

// AppendVerbosity appends min(count, MaxVerbosityFlags) "-v" flags to args.
// It is applied to every external-tool invocation that understands nix's
// own verbosity convention.
func AppendVerbosity(args []string, count int) []string {
	n := count
	if n > MaxVerbosityFlags {
		n = MaxVerbosityFlags
	}
	for i := 0; i < n; i++ {
		args = append(args, "-v")
	}
	return args
}

// Sudo wraps cmd with the elevation command, unless the current process is
// already running as root. The core never invokes sudo for a command
// already running with root privileges (spec.md §4.1).
func Sudo(cmd Spec) Spec {
	if os.Geteuid() == 0 {
		return cmd
	}
	return Spec{
		Path: "sudo",
		Args: append([]string{cmd.Path}, cmd.Args...),
		Dir:  cmd.Dir,
		Env:  cmd.Env,
	}
}

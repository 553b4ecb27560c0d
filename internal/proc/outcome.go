package proc

// Outcome is the closed result of running an external process. Exactly one
// of the concrete types below is produced by any Run* call; callers switch
// on the concrete type rather than inspecting a generic error, so a
// SpawnFailed can never be mistaken for a clean non-zero exit.
type Outcome interface {
	// Command returns the rendered command string that produced this
	// outcome, for logging and error messages.
	Command() string
}

// Completed is a process that exited zero. Stdout and Stderr hold whatever
// output the run captured; they are empty for run-inherit, whose output
// goes straight to the terminal.
type Completed struct {
	Cmd    string
	Status int
	Stdout string
	Stderr string
}

func (c Completed) Command() string { return c.Cmd }

// Success reports whether the process exited zero.
func (c Completed) Success() bool { return c.Status == 0 }

// SpawnFailed means the child process never started: the binary was not
// found, was not executable, or the OS refused to fork/exec it.
type SpawnFailed struct {
	Cmd string
	Err string
}

func (s SpawnFailed) Command() string { return s.Cmd }

// NonZeroExit is a captured run (run-capture, or the tail of run-piped)
// that exited non-zero. Stdout and stderr are fully captured.
type NonZeroExit struct {
	Cmd    string
	Status string // decimal exit code, or "unknown" if it could not be determined
	Stdout string
	Stderr string
}

func (n NonZeroExit) Command() string { return n.Cmd }

// InheritedNonZeroExit is a run-inherit command that exited non-zero. Its
// stdout/stderr went straight to the user's terminal and were never
// captured, so only the numeric status survives.
type InheritedNonZeroExit struct {
	Cmd    string
	Status string
}

func (i InheritedNonZeroExit) Command() string { return i.Cmd }

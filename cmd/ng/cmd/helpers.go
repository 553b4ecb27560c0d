package cmd

import (
	"fmt"
	"os"

	"github.com/ngcli/ng/internal/target"
	"github.com/ngcli/ng/pkg/ng"
	"github.com/spf13/cobra"
)

// commonRebuildFlags holds the flags every rebuild-style subcommand
// (os/home/darwin) binds identically, mirroring CommonRebuildArgs.
type commonRebuildFlags struct {
	file           string
	expr           string
	noPreflight    bool
	medium         bool
	full           bool
	strictLint     bool
	strictFormat   bool
	dryRun         bool
	askConfirm     bool
	noNom          bool
	outLink        string
	clean          bool
	update         bool
	updateInput    string
	specialisation string
	noSpecialise   bool
}

func bindCommonRebuildFlags(cmd *cobra.Command, f *commonRebuildFlags) {
	cmd.Flags().StringVar(&f.file, "file", "", "build from a .nix file instead of a flake")
	cmd.Flags().StringVar(&f.expr, "expr", "", "build from an inline Nix expression instead of a flake")
	cmd.Flags().BoolVar(&f.noPreflight, "no-preflight", false, "skip pre-flight checks")
	cmd.Flags().BoolVar(&f.medium, "medium-checks", false, "run medium-depth pre-flight checks (adds evaluation)")
	cmd.Flags().BoolVar(&f.full, "full-checks", false, "run full pre-flight checks (adds a dry-run build)")
	cmd.Flags().BoolVar(&f.strictLint, "strict-lint", false, "treat lint warnings as critical failures")
	cmd.Flags().BoolVar(&f.strictFormat, "strict-format", false, "has no effect: no pre-flight check reads it")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "skip the diff and activation (and, for build, the build itself)")
	cmd.Flags().BoolVarP(&f.askConfirm, "ask", "a", false, "prompt for confirmation before activating")
	cmd.Flags().BoolVar(&f.noNom, "no-nom", false, "don't pipe build output through a diff monitor")
	cmd.Flags().StringVar(&f.outLink, "out-link", "", "path for the build's result symlink")
	cmd.Flags().BoolVar(&f.clean, "clean", false, "run garbage collection after a successful rebuild")
	cmd.Flags().BoolVarP(&f.update, "update", "u", false, "update all flake inputs before building")
	cmd.Flags().StringVar(&f.updateInput, "update-input", "", "update only the named flake input")
	cmd.Flags().StringVarP(&f.specialisation, "specialisation", "s", "", "build the named specialisation")
	cmd.Flags().BoolVar(&f.noSpecialise, "no-specialisation", false, "build the base configuration even when --specialisation is given")
}

// resolveInstallable parses the positional installable argument together
// with --file/--expr into a target.Target, falling back to the
// environment-variable chain when none were given.
func resolveInstallable(args []string, f *commonRebuildFlags, currentCommand string) (target.Target, error) {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	env := target.EnvFromEnviron()
	env.CurrentCommand = currentCommand
	return target.Resolve(arg, f.file, f.expr, env)
}

func resolveStrict(set bool) *bool {
	if !set {
		return nil
	}
	v := true
	return &v
}

// rebuildOptionsFromFlags converts bound cobra flags into ng.RebuildOptions.
func rebuildOptionsFromFlags(args []string, f *commonRebuildFlags, currentCommand string, mode ng.ActivationMode) (ng.RebuildOptions, error) {
	installable, err := resolveInstallable(args, f, currentCommand)
	if err != nil {
		return ng.RebuildOptions{}, err
	}

	return ng.RebuildOptions{
		Installable:      installable,
		Mode:             mode,
		Specialisation:   f.specialisation,
		NoSpecialisation: f.noSpecialise,
		NoPreflight:      f.noPreflight,
		MediumChecks:     f.medium,
		FullChecks:       f.full,
		StrictLint:       resolveStrict(f.strictLint),
		StrictFormat:     resolveStrict(f.strictFormat),
		DryRun:           f.dryRun,
		AskConfirmation:  f.askConfirm,
		NoNom:            f.noNom,
		OutLink:          f.outLink,
		CleanAfter:       f.clean,
		Update:           f.update,
		UpdateInput:      f.updateInput,
	}, nil
}

// newClient builds an ng.Client for the bound --config/--verbose flags.
func newClient() (*ng.Client, error) {
	return ng.New(ng.Options{
		ConfigPath: configPath,
		Out:        os.Stdout,
		In:         os.Stdin,
		Verbosity:  verbose,
	})
}

func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

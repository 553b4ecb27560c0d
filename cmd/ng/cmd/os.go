package cmd

import (
	"os"

	"github.com/ngcli/ng/internal/workflow"
	"github.com/ngcli/ng/pkg/ng"
	"github.com/spf13/cobra"
)

var osCmd = &cobra.Command{
	Use:   "os",
	Short: "Rebuild a nixosConfigurations flake output",
}

type osFlags struct {
	commonRebuildFlags
	hostname        string
	bypassRootCheck bool
}

func bindOsFlags(cmd *cobra.Command, f *osFlags) {
	bindCommonRebuildFlags(cmd, &f.commonRebuildFlags)
	cmd.Flags().StringVar(&f.hostname, "hostname", "", "target hostname (default: the local hostname)")
	cmd.Flags().BoolVar(&f.bypassRootCheck, "bypass-root-check", false, "allow running as root")
}

func newOsRebuildCmd(use, short string, mode ng.ActivationMode) *cobra.Command {
	f := &osFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rebuildOptionsFromFlags(args, &f.commonRebuildFlags, "os", mode)
			if err != nil {
				return err
			}
			opts.Hostname = f.hostname
			opts.BypassRootCheck = f.bypassRootCheck

			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.RebuildOS(cmd.Context(), opts); err != nil {
				return err
			}
			info("os %s complete.", use)
			return nil
		},
	}
	bindOsFlags(cmd, f)
	return cmd
}

var osGenerationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "List the system's NixOS generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, current, _ := workflow.OsStrategy{}.ProfileDirs()
		client, err := newClient()
		if err != nil {
			return err
		}
		gens, err := client.ListGenerations(dir, current)
		if err != nil {
			return err
		}
		renderGenerations(os.Stdout, gens)
		return nil
	},
}

func init() {
	osCmd.AddCommand(newOsRebuildCmd("switch", "Build and activate, making it the boot default", ng.Switch))
	osCmd.AddCommand(newOsRebuildCmd("boot", "Build and prepare for the next boot without activating now", ng.Boot))
	osCmd.AddCommand(newOsRebuildCmd("test", "Build and activate without changing the boot default", ng.Test))
	osCmd.AddCommand(newOsRebuildCmd("build", "Build only, without activating", ng.Build))
	osCmd.AddCommand(osGenerationsCmd)
	rootCmd.AddCommand(osCmd)
}

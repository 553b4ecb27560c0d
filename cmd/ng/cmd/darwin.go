package cmd

import (
	"github.com/ngcli/ng/pkg/ng"
	"github.com/spf13/cobra"
)

var darwinCmd = &cobra.Command{
	Use:   "darwin",
	Short: "Rebuild a darwinConfigurations flake output",
}

type darwinFlags struct {
	commonRebuildFlags
	hostname string
}

func newDarwinRebuildCmd(use, short string, mode ng.ActivationMode) *cobra.Command {
	f := &darwinFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rebuildOptionsFromFlags(args, &f.commonRebuildFlags, "darwin", mode)
			if err != nil {
				return err
			}
			opts.Hostname = f.hostname

			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.RebuildDarwin(cmd.Context(), opts); err != nil {
				return err
			}
			info("darwin %s complete.", use)
			return nil
		},
	}
	bindCommonRebuildFlags(cmd, &f.commonRebuildFlags)
	cmd.Flags().StringVar(&f.hostname, "hostname", "", "target hostname (default: the local hostname)")
	return cmd
}

func init() {
	darwinCmd.AddCommand(newDarwinRebuildCmd("switch", "Build and activate the darwin configuration", ng.Switch))
	darwinCmd.AddCommand(newDarwinRebuildCmd("build", "Build only, without activating", ng.Build))
	rootCmd.AddCommand(darwinCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/ngcli/ng/internal/workflow"
	"github.com/ngcli/ng/pkg/ng"
	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Rebuild a homeConfigurations flake output",
}

func newHomeRebuildCmd(use, short string, mode ng.ActivationMode) *cobra.Command {
	f := &commonRebuildFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rebuildOptionsFromFlags(args, f, "home", mode)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.RebuildHome(cmd.Context(), opts); err != nil {
				return err
			}
			info("home %s complete.", use)
			return nil
		},
	}
	bindCommonRebuildFlags(cmd, f)
	return cmd
}

var homeGenerationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "List the current user's home-manager generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, current, ok := workflow.HomeStrategy{}.ProfileDirs()
		if !ok {
			return fmt.Errorf("could not locate a home-manager profile directory")
		}
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
	homeCmd.AddCommand(newHomeRebuildCmd("switch", "Build and activate the home-manager generation", ng.Switch))
	homeCmd.AddCommand(newHomeRebuildCmd("build", "Build only, without activating", ng.Build))
	homeCmd.AddCommand(homeGenerationsCmd)
	rootCmd.AddCommand(homeCmd)
}

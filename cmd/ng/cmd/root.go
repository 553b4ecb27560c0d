package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	verbose    int
	quiet      bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "ng",
	Short: "Rebuild NixOS, nix-darwin, and home-manager configurations",
	Long: `ng rebuilds declarative NixOS, nix-darwin, and home-manager
configurations. It runs pre-flight checks against your flake before
building, shows a dependency diff before activating, and trims old
generations once a rebuild succeeds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ng %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ng.toml", "path to config file")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "has no effect: color follows terminal detection")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

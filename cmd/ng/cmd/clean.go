package cmd

import (
	"fmt"
	"os"

	"github.com/ngcli/ng/internal/workflow"
	"github.com/ngcli/ng/pkg/ng"
	"github.com/spf13/cobra"
)

var (
	cleanPlatform  string
	cleanKeepCount int
	cleanKeepDays  int
	cleanDryRun    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Trim old generations down to a keep-count/keep-days window",
	Long: `Lists the generations of the chosen platform's profile and removes
everything outside the keep-count/keep-days window. The currently active
generation is always kept regardless of either bound.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, current, err := profileDirsForPlatform(cleanPlatform)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Clean(cmd.Context(), ng.CleanOptions{
			ProfileDir:     dir,
			CurrentProfile: current,
			KeepCount:      cleanKeepCount,
			KeepDays:       cleanKeepDays,
			DryRun:         cleanDryRun,
		})
		if err != nil {
			return err
		}

		if cleanDryRun {
			info("Dry run — the following generations would be removed:")
		} else {
			info("Removed generations:")
		}
		renderGenerations(os.Stdout, result.Removed)

		for _, e := range result.Errors {
			errorf("%s", e)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d generation(s) failed to remove", len(result.Errors))
		}
		return nil
	},
}

// profileDirsForPlatform resolves the profile directory pair a given
// platform's Strategy uses for generation bookkeeping.
func profileDirsForPlatform(platform string) (dir, current string, err error) {
	switch platform {
	case "os":
		dir, current, _ = workflow.OsStrategy{}.ProfileDirs()
		return dir, current, nil
	case "home":
		dir, current, ok := workflow.HomeStrategy{}.ProfileDirs()
		if !ok {
			return "", "", fmt.Errorf("could not locate a home-manager profile directory")
		}
		return dir, current, nil
	case "darwin":
		return "", "", fmt.Errorf("darwin has no stable generation profile to clean against")
	default:
		return "", "", fmt.Errorf("unknown --platform %q: want one of os, home, darwin", platform)
	}
}

func init() {
	cleanCmd.Flags().StringVar(&cleanPlatform, "platform", "os", "which profile to clean: os, home, or darwin")
	cleanCmd.Flags().IntVar(&cleanKeepCount, "keep-count", 3, "keep at most this many of the most recent generations")
	cleanCmd.Flags().IntVar(&cleanKeepDays, "keep-days", 14, "remove generations older than this many days")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "show what would be removed without removing it")
	rootCmd.AddCommand(cleanCmd)
}

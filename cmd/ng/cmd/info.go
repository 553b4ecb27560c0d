package cmd

import (
	"fmt"

	"github.com/ngcli/ng/internal/config"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show ng's version and effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		fmt.Printf("ng %s\n", version)
		fmt.Printf("  config:        %s\n", configPath)
		fmt.Printf("  auto-clean:    %t\n", cfg.AutoClean.Enabled)
		if cfg.AutoClean.Enabled {
			fmt.Printf("    keep-count:  %d\n", cfg.AutoClean.KeepCount)
			fmt.Printf("    keep-days:   %d\n", cfg.AutoClean.KeepDays)
			fmt.Printf("    on-success:  %v\n", cfg.AutoClean.OnSuccessFor)
			fmt.Printf("    run-gc:      %t\n", cfg.AutoClean.RunGC)
			fmt.Printf("    run-optimise: %t\n", cfg.AutoClean.RunOptimise)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

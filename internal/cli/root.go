// Package cli implements the wallctl command line tool: offline trajectory
// planning, dispatching stored trajectories to the robot, and database
// migrations.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput   bool
	databasePath string
)

// rootCmd is the root command for wallctl.
var rootCmd = &cobra.Command{
	Use:     "wallctl",
	Version: "dev",
	Short:   "Wall-finishing robot trajectory toolkit",
	Long: `wallctl plans full-coverage trajectories for a wall-finishing robot,
renders them for review, streams them to the robot over a serial link,
and manages the trajectory database schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "trajectories.db", "SQLite database path")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

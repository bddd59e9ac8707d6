package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zingzy/wallbot/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the trajectory database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(databasePath)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.MigrateUp(); err != nil {
			return err
		}
		PrintSuccess("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(databasePath)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.MigrateDown(); err != nil {
			return err
		}
		PrintSuccess("migrations rolled back")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(databasePath)
		if err != nil {
			return err
		}
		defer database.Close()

		version, dirty, err := database.MigrateVersion()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"version": version,
				"dirty":   dirty,
			})
		}
		PrintLabelValue("version", fmt.Sprintf("%d", version))
		PrintLabelValue("dirty", fmt.Sprintf("%t", dirty))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

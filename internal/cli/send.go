package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zingzy/wallbot/internal/db"
	"github.com/zingzy/wallbot/internal/robotlink"
)

var (
	sendPort string
	sendBaud int
	sendDev  bool
)

var sendCmd = &cobra.Command{
	Use:   "send <trajectory-id>",
	Short: "Stream a stored trajectory to the robot",
	Long: `Load a trajectory from the database by ID and stream its waypoints to
the robot controller over the serial link.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid trajectory ID %q", args[0])
		}

		database, err := openMigratedDB()
		if err != nil {
			return err
		}
		defer database.Close()

		traj, err := database.GetTrajectory(id)
		if err != nil {
			return err
		}

		var link robotlink.Controller
		if sendDev {
			link = robotlink.NewMockLink([]byte("ACK 0\n"))
		} else {
			serialLink, err := robotlink.OpenSerial(sendPort, sendBaud)
			if err != nil {
				return fmt.Errorf("failed to open serial port: %w", err)
			}
			link = serialLink
		}
		defer link.Close()

		if err := link.SendTrajectory(traj.Path, traj.CellSize); err != nil {
			return fmt.Errorf("failed to send trajectory: %w", err)
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"id":          id,
				"points_sent": len(traj.Path),
			})
		}
		PrintSuccess(fmt.Sprintf("sent trajectory %d (%d points)", id, len(traj.Path)))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendPort, "port", "/dev/ttyUSB0", "Robot serial port")
	sendCmd.Flags().IntVar(&sendBaud, "baud", 115200, "Serial baud rate")
	sendCmd.Flags().BoolVar(&sendDev, "dev", false, "Use a mock robot link instead of a serial port")
}

// openMigratedDB opens the configured database and brings the schema up to
// date.
func openMigratedDB() (*db.DB, error) {
	database, err := db.Open(databasePath)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateUp(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return database, nil
}

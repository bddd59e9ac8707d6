package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zingzy/wallbot/internal/db"
	"github.com/zingzy/wallbot/internal/planner"
	"github.com/zingzy/wallbot/internal/report"
)

var (
	planRender  string
	planAnalyze bool
	planStats   bool
	planStore   bool
)

// planInput is the JSON document the plan command consumes.
type planInput struct {
	WallWidth  float64            `json:"wall_width"`
	WallHeight float64            `json:"wall_height"`
	CellSize   float64            `json:"cell_size,omitempty"`
	Obstacles  []planner.Obstacle `json:"obstacles,omitempty"`
}

type planOutput struct {
	Path     planner.Path        `json:"path"`
	Metadata planner.Metadata    `json:"metadata"`
	Analysis *planner.Analysis   `json:"analysis,omitempty"`
	Stats    *planner.SweepStats `json:"sweep_stats,omitempty"`
	StoredID int                 `json:"stored_id,omitempty"`
}

var planCmd = &cobra.Command{
	Use:   "plan <input.json>",
	Short: "Compute a coverage trajectory from a wall description",
	Long: `Read a wall description (dimensions, cell size, obstacles) from a JSON
file, compute the full-coverage trajectory, and report its statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		var input planInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return fmt.Errorf("failed to parse input file: %w", err)
		}

		wall := planner.Wall{
			Width:    input.WallWidth,
			Height:   input.WallHeight,
			CellSize: input.CellSize,
		}
		if wall.CellSize == 0 {
			wall.CellSize = planner.DefaultCellSize
		}

		path, meta, err := planner.GenerateTrajectory(wall, input.Obstacles)
		if err != nil {
			return err
		}

		out := planOutput{Path: path, Metadata: meta}

		if planAnalyze {
			grid, err := planner.BuildGrid(wall, input.Obstacles)
			if err != nil {
				return err
			}
			analysis, err := planner.Analyze(grid)
			if err != nil {
				return err
			}
			out.Analysis = &analysis
		}
		if planStats {
			stats := planner.RunStats(path)
			out.Stats = &stats
		}

		if planStore {
			database, err := openMigratedDB()
			if err != nil {
				return err
			}
			defer database.Close()

			traj := &db.Trajectory{
				WallWidth:          wall.Width,
				WallHeight:         wall.Height,
				CellSize:           wall.CellSize,
				Obstacles:          input.Obstacles,
				Path:               path,
				CoveragePercentage: meta.CoveragePercentage,
			}
			if err := database.CreateTrajectory(traj); err != nil {
				return fmt.Errorf("failed to store trajectory: %w", err)
			}
			out.StoredID = traj.ID
		}

		if planRender != "" {
			if err := report.RenderTrajectory(wall, input.Obstacles, path, planRender); err != nil {
				return fmt.Errorf("failed to render trajectory: %w", err)
			}
		}

		if jsonOutput {
			return outputJSON(out)
		}

		PrintSuccess(fmt.Sprintf("planned %d points over a %gx%gm wall", len(path), wall.Width, wall.Height))
		PrintLabelValue("grid", fmt.Sprintf("%dx%d cells at %gm", meta.GridDimensions.Rows, meta.GridDimensions.Cols, meta.CellSize))
		PrintLabelValue("free cells", fmt.Sprintf("%d of %d", meta.FreeCells, meta.TotalCells))
		PrintLabelValue("coverage", fmt.Sprintf("%.2f%%", meta.CoveragePercentage))
		if out.Analysis != nil {
			PrintLabelValue("free regions", fmt.Sprintf("%d (largest %d cells)", out.Analysis.FreeRegions, out.Analysis.LargestRegionCells))
		}
		if out.Stats != nil {
			PrintLabelValue("sweep runs", fmt.Sprintf("%d (mean %.1f, p85 %.1f cells)", out.Stats.Runs, out.Stats.MeanRunLength, out.Stats.P85RunLength))
		}
		if out.StoredID != 0 {
			PrintLabelValue("stored id", fmt.Sprintf("%d", out.StoredID))
		}
		if planRender != "" {
			PrintLabelValue("rendered", planRender)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planRender, "render", "", "Render the trajectory to a PNG at this path")
	planCmd.Flags().BoolVar(&planAnalyze, "analyze", false, "Report connected free regions of the grid")
	planCmd.Flags().BoolVar(&planStats, "stats", false, "Report sweep run length statistics")
	planCmd.Flags().BoolVar(&planStore, "store", false, "Persist the trajectory to the database")
}

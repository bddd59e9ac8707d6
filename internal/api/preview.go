package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/zingzy/wallbot/internal/db"
	"github.com/zingzy/wallbot/internal/httputil"
	"github.com/zingzy/wallbot/internal/planner"
)

// previewTrajectory renders a stored trajectory as an HTML scatter chart:
// occupied cells in grey, visited cells in green.
func (s *Server) previewTrajectory(w http.ResponseWriter, id int) {
	traj, err := s.db.GetTrajectory(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "trajectory not found")
		return
	}
	if err != nil {
		log.Printf("failed to retrieve trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to retrieve trajectory")
		return
	}

	wall := planner.Wall{
		Width:    traj.WallWidth,
		Height:   traj.WallHeight,
		CellSize: traj.CellSize,
	}

	// Re-rasterise to recover the obstacle cells; only the path is stored.
	grid, err := planner.BuildGrid(wall, traj.Obstacles)
	if err != nil {
		log.Printf("failed to rebuild grid for trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to rebuild occupancy grid")
		return
	}

	obstaclePts := make([]opts.ScatterData, 0, grid.OccupiedCount())
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if grid.Occupied(row, col) {
				x := (float64(col) + 0.5) * wall.CellSize
				y := (float64(row) + 0.5) * wall.CellSize
				obstaclePts = append(obstaclePts, opts.ScatterData{Value: []interface{}{x, y}})
			}
		}
	}

	pathPts := make([]opts.ScatterData, 0, len(traj.Path))
	for _, pt := range traj.Path {
		x := (float64(pt.Col) + 0.5) * wall.CellSize
		y := (float64(pt.Row) + 0.5) * wall.CellSize
		pathPts = append(pathPts, opts.ScatterData{Value: []interface{}{x, y}})
	}

	analysis, err := planner.Analyze(grid)
	if err != nil {
		log.Printf("failed to analyse grid for trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to analyse occupancy grid")
		return
	}

	subtitle := fmt.Sprintf(
		"wall=%gx%gm cell=%gm points=%d coverage=%.2f%% regions=%d",
		traj.WallWidth, traj.WallHeight, traj.CellSize,
		len(traj.Path), traj.CoveragePercentage, analysis.FreeRegions,
	)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Trajectory Preview", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Trajectory %d", id), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: wall.Width, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: wall.Height, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("obstacles", obstaclePts,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}))
	scatter.AddSeries("path", pathPts,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#35b779"}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		log.Printf("failed to render preview for trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to render preview chart")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

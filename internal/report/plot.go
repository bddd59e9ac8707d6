// Package report renders a planned trajectory to a PNG for operator
// review: wall outline, obstacle rectangles, and the serpentine path.
package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/zingzy/wallbot/internal/planner"
)

var (
	wallColor     = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	obstacleColor = color.RGBA{R: 220, G: 80, B: 80, A: 160}
	pathColor     = color.RGBA{R: 40, G: 110, B: 220, A: 255}
)

// RenderTrajectory draws the wall, obstacles, and path to a PNG at
// outPath. Path points are plotted at cell centres in wall coordinates.
func RenderTrajectory(wall planner.Wall, obstacles []planner.Obstacle, path planner.Path, outPath string) error {
	stats := planner.RunStats(path)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Coverage path: %gx%gm wall, %d points, %d runs",
		wall.Width, wall.Height, len(path), stats.Runs)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.X.Min, p.X.Max = 0, wall.Width
	p.Y.Min, p.Y.Max = 0, wall.Height

	outline, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0}, {X: wall.Width, Y: 0},
		{X: wall.Width, Y: wall.Height}, {X: 0, Y: wall.Height},
		{X: 0, Y: 0},
	})
	if err != nil {
		return fmt.Errorf("failed to build wall outline: %w", err)
	}
	outline.Color = wallColor
	outline.Width = vg.Points(2)
	p.Add(outline)

	for i, obs := range obstacles {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: obs.X, Y: obs.Y},
			{X: obs.X + obs.Width, Y: obs.Y},
			{X: obs.X + obs.Width, Y: obs.Y + obs.Height},
			{X: obs.X, Y: obs.Y + obs.Height},
		})
		if err != nil {
			return fmt.Errorf("failed to build obstacle %d: %w", i+1, err)
		}
		poly.Color = obstacleColor
		p.Add(poly)
	}

	if len(path) > 0 {
		pts := make(plotter.XYs, len(path))
		for i, pt := range path {
			pts[i] = plotter.XY{
				X: (float64(pt.Col) + 0.5) * wall.CellSize,
				Y: (float64(pt.Row) + 0.5) * wall.CellSize,
			}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build path line: %w", err)
		}
		line.Color = pathColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	// Scale the image to the wall's aspect ratio, capped at 10 inches.
	width, height := 10*vg.Inch, 10*vg.Inch
	switch {
	case wall.Width > wall.Height:
		height = vg.Length(float64(width) * wall.Height / wall.Width)
	case wall.Height > wall.Width:
		width = vg.Length(float64(height) * wall.Width / wall.Height)
	}

	if err := p.Save(width, height, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

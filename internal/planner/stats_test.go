package planner

import (
	"math"
	"testing"
)

func TestRunStatsEmptyPath(t *testing.T) {
	stats := RunStats(nil)
	if stats.Runs != 0 || stats.MeanRunLength != 0 {
		t.Errorf("empty path stats = %+v, want zeros", stats)
	}
}

func TestRunStatsUnobstructedWall(t *testing.T) {
	g := mustBuild(t, Wall{Width: 2.0, Height: 1.0, CellSize: 0.1}, nil)
	path, _ := Plan(g)

	stats := RunStats(path)
	// 10 rows of 20 cells, each row one unbroken stroke.
	if stats.Runs != 10 {
		t.Errorf("Runs = %d, want 10", stats.Runs)
	}
	if math.Abs(stats.MeanRunLength-20.0) > 1e-9 {
		t.Errorf("MeanRunLength = %f, want 20", stats.MeanRunLength)
	}
	if stats.P50RunLength != 20.0 || stats.P98RunLength != 20.0 {
		t.Errorf("percentiles = %+v, want all 20", stats)
	}
}

func TestRunStatsObstacleSplitsRows(t *testing.T) {
	// A vertical strip through the middle cuts every row into two strokes.
	wall := Wall{Width: 3.0, Height: 1.0, CellSize: 0.1}
	obstacles := []Obstacle{{X: 1.4, Y: 0, Width: 0.2, Height: 1.0}}

	g := mustBuild(t, wall, obstacles)
	path, _ := Plan(g)

	stats := RunStats(path)
	if stats.Runs != 2*g.Rows {
		t.Errorf("Runs = %d, want %d", stats.Runs, 2*g.Rows)
	}
	if stats.MeanRunLength >= 15.0 {
		t.Errorf("MeanRunLength = %f, want < 15 for a split row", stats.MeanRunLength)
	}
}

func TestRunStatsSinglePoint(t *testing.T) {
	stats := RunStats(Path{{0, 0}})
	if stats.Runs != 1 || stats.MeanRunLength != 1.0 {
		t.Errorf("single point stats = %+v, want one run of length 1", stats)
	}
}

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zingzy/wallbot/internal/planner"
)

func TestRenderTrajectory(t *testing.T) {
	wall := planner.Wall{Width: 2.0, Height: 1.0, CellSize: 0.1}
	obstacles := []planner.Obstacle{{X: 0.5, Y: 0.25, Width: 0.5, Height: 0.25}}

	path, _, err := planner.GenerateTrajectory(wall, obstacles)
	if err != nil {
		t.Fatalf("GenerateTrajectory failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "trajectory.png")
	if err := RenderTrajectory(wall, obstacles, path, out); err != nil {
		t.Fatalf("RenderTrajectory failed: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestRenderTrajectoryEmptyPath(t *testing.T) {
	wall := planner.Wall{Width: 1.0, Height: 1.0, CellSize: 0.1}

	out := filepath.Join(t.TempDir(), "empty.png")
	if err := RenderTrajectory(wall, nil, nil, out); err != nil {
		t.Fatalf("RenderTrajectory failed on empty path: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

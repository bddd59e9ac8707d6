// Package planner converts continuous wall and obstacle geometry into a
// discretised occupancy grid and produces a boustrophedon coverage path
// over the free cells, together with the coverage statistics for the run.
//
// All functions in this package are pure: each call allocates its own grid
// and path, so concurrent callers need no coordination.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// DefaultCellSize is the grid resolution used when the caller does not
// specify one (10cm cells).
const DefaultCellSize = 0.1

// maxGridAxis caps the cell count along one grid axis. The float to int
// conversion in GridSize is only defined below this bound; a wall whose
// dimension-to-cell ratio exceeds it fails validation instead of wrapping.
const maxGridAxis = 1 << 30

// Validation errors. Handlers match on these with errors.Is to map
// planner failures to client errors; the wrapped message carries the
// offending obstacle index and overflow amounts.
var (
	ErrInvalidDimension         = errors.New("wall dimensions and cell size must be positive")
	ErrInvalidObstacleDimension = errors.New("obstacle has non-positive dimensions")
	ErrObstacleOutOfBounds      = errors.New("obstacle is outside wall boundaries")
)

// Wall describes the rectangular work surface in meters. CellSize is the
// edge length of one occupancy cell.
type Wall struct {
	Width    float64 `json:"wall_width"`
	Height   float64 `json:"wall_height"`
	CellSize float64 `json:"cell_size"`
}

// Obstacle is an axis-aligned rectangle on the wall, origin at the
// bottom-left corner, all values in meters.
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Grid is a dense row-major occupancy grid. A true cell is covered by at
// least one obstacle; false cells are free and must be visited.
type Grid struct {
	Rows     int
	Cols     int
	CellSize float64
	cells    []bool
}

// Occupied reports whether cell (row, col) is covered by an obstacle.
func (g *Grid) Occupied(row, col int) bool {
	return g.cells[row*g.Cols+col]
}

func (g *Grid) mark(row, col int) {
	g.cells[row*g.Cols+col] = true
}

// OccupiedCount returns the number of obstacle cells in the grid.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Point is a single visited cell, addressed as (row, col). It marshals to
// the two-element array form used on the wire and in stored trajectories.
type Point struct {
	Row int
	Col int
}

// MarshalJSON encodes the point as [row, col].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// UnmarshalJSON decodes the [row, col] array form.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// Path is the ordered visitation sequence over free cells. Order encodes
// traversal order, not geometric distance; occupied cells are skipped
// without breaking the sweep.
type Path []Point

// GridDimensions reports the discretised grid size.
type GridDimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Metadata summarises a planning run.
type Metadata struct {
	TotalCells         int            `json:"total_cells"`
	ObstacleCells      int            `json:"obstacle_cells"`
	FreeCells          int            `json:"free_cells"`
	PathPoints         int            `json:"path_points"`
	CoveragePercentage float64        `json:"coverage_percentage"`
	GridDimensions     GridDimensions `json:"grid_dimensions"`
	CellSize           float64        `json:"cell_size"`
}

// validate rejects bad geometry before any grid is allocated. Obstacle
// indexes in messages are 1-based to match what operators see in request
// payloads.
func validate(wall Wall, obstacles []Obstacle) error {
	if wall.Width <= 0 || wall.Height <= 0 || math.IsInf(wall.Width, 0) || math.IsInf(wall.Height, 0) ||
		math.IsNaN(wall.Width) || math.IsNaN(wall.Height) {
		return fmt.Errorf("wall %gx%g: %w", wall.Width, wall.Height, ErrInvalidDimension)
	}
	if wall.CellSize <= 0 || math.IsNaN(wall.CellSize) || math.IsInf(wall.CellSize, 0) {
		return fmt.Errorf("cell size %g: %w", wall.CellSize, ErrInvalidDimension)
	}
	if wall.Height/wall.CellSize > maxGridAxis || wall.Width/wall.CellSize > maxGridAxis {
		return fmt.Errorf("wall %gx%g at cell size %g exceeds the maximum grid size: %w",
			wall.Width, wall.Height, wall.CellSize, ErrInvalidDimension)
	}

	for i, obs := range obstacles {
		if obs.Width <= 0 || obs.Height <= 0 {
			return fmt.Errorf("obstacle %d (x=%g, y=%g, w=%g, h=%g): %w",
				i+1, obs.X, obs.Y, obs.Width, obs.Height, ErrInvalidObstacleDimension)
		}
		if obs.X < 0 || obs.Y < 0 {
			return fmt.Errorf("obstacle %d has negative origin (x=%g, y=%g): %w",
				i+1, obs.X, obs.Y, ErrObstacleOutOfBounds)
		}
		if over := obs.X + obs.Width - wall.Width; over > 0 {
			return fmt.Errorf("obstacle %d extends %gm beyond wall width %g: %w",
				i+1, over, wall.Width, ErrObstacleOutOfBounds)
		}
		if over := obs.Y + obs.Height - wall.Height; over > 0 {
			return fmt.Errorf("obstacle %d extends %gm beyond wall height %g: %w",
				i+1, over, wall.Height, ErrObstacleOutOfBounds)
		}
	}
	return nil
}

// GridSize returns the grid dimensions that BuildGrid would allocate for
// the wall, without validating or allocating. Used by callers that cap
// grid size before planning. The result is unspecified for geometry that
// fails validation.
func GridSize(wall Wall) (rows, cols int) {
	rows = int(math.Ceil(wall.Height / wall.CellSize))
	cols = int(math.Ceil(wall.Width / wall.CellSize))
	return rows, cols
}

// BuildGrid validates the wall and obstacle geometry and rasterises the
// obstacles into a fresh occupancy grid.
//
// Cell index bounds are computed by truncating continuous coordinates
// divided by the cell size, and the upper bounds are marked INCLUSIVELY.
// An obstacle's occupied footprint can therefore be one cell larger per
// edge than its exact geometric extent. Stored paths and coverage numbers
// depend on this exact behaviour, so it must not be tightened.
func BuildGrid(wall Wall, obstacles []Obstacle) (*Grid, error) {
	if err := validate(wall, obstacles); err != nil {
		return nil, err
	}

	rows, cols := GridSize(wall)
	g := &Grid{
		Rows:     rows,
		Cols:     cols,
		CellSize: wall.CellSize,
		cells:    make([]bool, rows*cols),
	}

	for _, obs := range obstacles {
		rowStart := clamp(int(obs.Y/wall.CellSize), 0, rows-1)
		rowEnd := clamp(int((obs.Y+obs.Height)/wall.CellSize), 0, rows-1)
		colStart := clamp(int(obs.X/wall.CellSize), 0, cols-1)
		colEnd := clamp(int((obs.X+obs.Width)/wall.CellSize), 0, cols-1)

		// Marking an already-occupied cell is a no-op, so overlapping
		// obstacles are idempotent.
		for r := rowStart; r <= rowEnd; r++ {
			for c := colStart; c <= colEnd; c++ {
				g.mark(r, c)
			}
		}
	}

	return g, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Plan walks the grid in boustrophedon order: even rows left to right,
// odd rows right to left. Every free cell is emitted exactly once; an
// obstacle splitting a row produces a gap in the path, not a detour.
func Plan(g *Grid) (Path, Metadata) {
	path := make(Path, 0, g.Rows*g.Cols)

	for row := 0; row < g.Rows; row++ {
		if row%2 == 0 {
			for col := 0; col < g.Cols; col++ {
				if !g.Occupied(row, col) {
					path = append(path, Point{Row: row, Col: col})
				}
			}
		} else {
			for col := g.Cols - 1; col >= 0; col-- {
				if !g.Occupied(row, col) {
					path = append(path, Point{Row: row, Col: col})
				}
			}
		}
	}

	total := g.Rows * g.Cols
	occupied := g.OccupiedCount()
	free := total - occupied

	coverage := 0.0
	if free > 0 {
		coverage = float64(len(path)) / float64(free) * 100
	}

	meta := Metadata{
		TotalCells:         total,
		ObstacleCells:      occupied,
		FreeCells:          free,
		PathPoints:         len(path),
		CoveragePercentage: coverage,
		GridDimensions:     GridDimensions{Rows: g.Rows, Cols: g.Cols},
		CellSize:           g.CellSize,
	}
	return path, meta
}

// GenerateTrajectory runs the full pipeline: validate, rasterise, sweep.
// Either a complete path and metadata are returned, or nothing is.
func GenerateTrajectory(wall Wall, obstacles []Obstacle) (Path, Metadata, error) {
	grid, err := BuildGrid(wall, obstacles)
	if err != nil {
		return nil, Metadata{}, err
	}
	path, meta := Plan(grid)
	return path, meta, nil
}

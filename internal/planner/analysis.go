package planner

import (
	"github.com/katalvlaran/lvlath/gridgraph"
)

// Analysis describes the connectivity of the free space left after
// rasterisation. Obstacles that span a full row or column split the wall
// into regions the robot cannot move between without leaving the surface;
// operators use this to decide whether a single pass is physically
// achievable.
type Analysis struct {
	FreeRegions        int `json:"free_regions"`
	LargestRegionCells int `json:"largest_region_cells"`
}

// Analyze computes the 4-connected free regions of the grid. The sweep in
// Plan still visits every free cell regardless of connectivity; this is
// diagnostic output only.
func Analyze(g *Grid) (Analysis, error) {
	values := make([][]int, g.Rows)
	for r := 0; r < g.Rows; r++ {
		values[r] = make([]int, g.Cols)
		for c := 0; c < g.Cols; c++ {
			if !g.Occupied(r, c) {
				values[r][c] = 1
			}
		}
	}

	gg, err := gridgraph.NewGridGraph(values, gridgraph.DefaultGridOptions())
	if err != nil {
		return Analysis{}, err
	}

	var analysis Analysis
	for _, comp := range gg.ConnectedComponents() {
		analysis.FreeRegions++
		if len(comp) > analysis.LargestRegionCells {
			analysis.LargestRegionCells = len(comp)
		}
	}
	return analysis, nil
}

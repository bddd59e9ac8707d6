package planner

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SweepStats summarises the horizontal strokes of a path: maximal runs of
// column-adjacent points within a single row. Short runs mean the sweep is
// being chopped up by obstacles, which costs time on the physical robot.
type SweepStats struct {
	Runs          int     `json:"runs"`
	MeanRunLength float64 `json:"mean_run_length"`
	P50RunLength  float64 `json:"p50_run_length"`
	P85RunLength  float64 `json:"p85_run_length"`
	P98RunLength  float64 `json:"p98_run_length"`
}

// RunStats computes stroke statistics for a planned path. An empty path
// yields zero stats.
func RunStats(path Path) SweepStats {
	if len(path) == 0 {
		return SweepStats{}
	}

	lengths := make([]float64, 0, len(path))
	runLen := 1
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		sameRow := cur.Row == prev.Row
		adjacent := cur.Col == prev.Col+1 || cur.Col == prev.Col-1
		if sameRow && adjacent {
			runLen++
			continue
		}
		lengths = append(lengths, float64(runLen))
		runLen = 1
	}
	lengths = append(lengths, float64(runLen))

	sort.Float64s(lengths)
	return SweepStats{
		Runs:          len(lengths),
		MeanRunLength: stat.Mean(lengths, nil),
		P50RunLength:  stat.Quantile(0.50, stat.Empirical, lengths, nil),
		P85RunLength:  stat.Quantile(0.85, stat.Empirical, lengths, nil),
		P98RunLength:  stat.Quantile(0.98, stat.Empirical, lengths, nil),
	}
}

package spritemeta

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Row groups regions that share a sprite-sheet row. Regions holds indices
// into the centroid slice the row was built from, ordered left to right.
type Row struct {
	Regions []int
	MeanY   float64
}

func byYThenX(cs []r2.Vec) func(a, b int) int {
	return func(a, b int) int {
		if c := cmp.Compare(cs[a].Y, cs[b].Y); c != 0 {
			return c
		}
		return cmp.Compare(cs[a].X, cs[b].X)
	}
}

func byXThenY(cs []r2.Vec) func(a, b int) int {
	return func(a, b int) int {
		if c := cmp.Compare(cs[a].X, cs[b].X); c != 0 {
			return c
		}
		return cmp.Compare(cs[a].Y, cs[b].Y)
	}
}

// ClusterRows sweeps the centroids top to bottom and starts a new row
// whenever the vertical step from the last centroid of the current row
// reaches height/divisor. Rows come out ordered top to bottom; each row is
// ordered by x. Every centroid lands in exactly one row. Zero centroids
// yield no rows.
func ClusterRows(centroids []r2.Vec, height int, divisor float64) []Row {
	if len(centroids) == 0 {
		return nil
	}
	gap := float64(height) / divisor

	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, byYThenX(centroids))

	var rows []Row
	current := []int{order[0]}
	closeRow := func() {
		members := slices.Clone(current)
		slices.SortStableFunc(members, byXThenY(centroids))
		ys := make([]float64, len(members))
		for i, m := range members {
			ys[i] = centroids[m].Y
		}
		rows = append(rows, Row{Regions: members, MeanY: stat.Mean(ys, nil)})
	}
	for _, idx := range order[1:] {
		last := centroids[current[len(current)-1]]
		if math.Abs(centroids[idx].Y-last.Y) < gap {
			current = append(current, idx)
			continue
		}
		closeRow()
		current = []int{idx}
	}
	closeRow()
	return rows
}

// ColumnCount is the length of the longest row.
func ColumnCount(rows []Row) int {
	n := 0
	for _, r := range rows {
		n = max(n, len(r.Regions))
	}
	return n
}

package spritemeta

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// rowPoints resolves row indices back to the centroids they reference.
func rowPoints(rows []Row, cs []r2.Vec) [][]r2.Vec {
	out := make([][]r2.Vec, len(rows))
	for i, r := range rows {
		for _, idx := range r.Regions {
			out[i] = append(out[i], cs[idx])
		}
	}
	return out
}

func TestClusterRowsEmpty(t *testing.T) {
	assert.Empty(t, ClusterRows(nil, 100, 20))
}

func TestClusterRowsTwoRows(t *testing.T) {
	cs := []r2.Vec{
		{X: 90, Y: 52}, {X: 10, Y: 11}, {X: 50, Y: 10},
		{X: 30, Y: 50}, {X: 70, Y: 12},
	}
	rows := ClusterRows(cs, 100, 20)
	require.Len(t, rows, 2)

	got := rowPoints(rows, cs)
	assert.Equal(t, []r2.Vec{{X: 10, Y: 11}, {X: 50, Y: 10}, {X: 70, Y: 12}}, got[0])
	assert.Equal(t, []r2.Vec{{X: 30, Y: 50}, {X: 90, Y: 52}}, got[1])
	assert.InDelta(t, 11.0, rows[0].MeanY, 1e-9)
	assert.InDelta(t, 51.0, rows[1].MeanY, 1e-9)
	assert.Equal(t, 3, ColumnCount(rows))
}

func TestClusterRowsComparesWithLastMember(t *testing.T) {
	// Each step is below height/20 = 5, so the row keeps growing even
	// though the first and last centroids are 12 apart.
	cs := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 4}, {X: 2, Y: 8}, {X: 3, Y: 12}}
	rows := ClusterRows(cs, 100, 20)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Regions, 4)
}

func TestClusterRowsBreakIsStrict(t *testing.T) {
	cs := []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 5}}
	rows := ClusterRows(cs, 100, 20)
	assert.Len(t, rows, 2)
}

func TestClusterRowsPartitionsAndIgnoresInputOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var cs []r2.Vec
	for r := range 4 {
		for c := range 3 + r {
			cs = append(cs, r2.Vec{X: float64(c*40 + rng.Intn(3)), Y: float64(r*60 + rng.Intn(4))})
		}
	}
	want := rowPoints(ClusterRows(cs, 240, 20), cs)
	require.Len(t, want, 4)

	for range 10 {
		perm := rng.Perm(len(cs))
		shuffled := make([]r2.Vec, len(cs))
		for i, p := range perm {
			shuffled[i] = cs[p]
		}
		rows := ClusterRows(shuffled, 240, 20)
		assert.Equal(t, want, rowPoints(rows, shuffled))

		seen := make(map[int]int)
		for _, r := range rows {
			for _, idx := range r.Regions {
				seen[idx]++
			}
		}
		assert.Len(t, seen, len(cs))
		for idx, n := range seen {
			assert.Equal(t, 1, n, "index %d", idx)
		}
	}
}

func TestColumnCountRagged(t *testing.T) {
	rows := []Row{{Regions: []int{0}}, {Regions: []int{1, 2, 3, 4}}, {Regions: []int{5, 6}}}
	assert.Equal(t, 4, ColumnCount(rows))
	assert.Zero(t, ColumnCount(nil))
}

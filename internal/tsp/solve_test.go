package tsp

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomMatrix builds a symmetric matrix of grid distances between random points.
func randomMatrix(rng *rand.Rand, n int) [][]int {
	xs := make([]int, n)
	ys := make([]int, n)
	for i := range n {
		xs[i], ys[i] = rng.IntN(30), rng.IntN(30)
	}
	dist := make([][]int, n)
	for i := range n {
		dist[i] = make([]int, n)
		for j := range n {
			dist[i][j] = max(abs(xs[i]-xs[j]), abs(ys[i]-ys[j]))
		}
	}
	return dist
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// bruteForce returns the minimum open-path cost over all permutations of 1..n-1.
func bruteForce(dist [][]int) int {
	n := len(dist)
	nodes := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		nodes = append(nodes, i)
	}

	best := math.MaxInt
	var permute func(k int)
	permute = func(k int) {
		if k == len(nodes) {
			best = min(best, PathCost(dist, nodes))
			return
		}
		for i := k; i < len(nodes); i++ {
			nodes[k], nodes[i] = nodes[i], nodes[k]
			permute(k + 1)
			nodes[k], nodes[i] = nodes[i], nodes[k]
		}
	}
	permute(0)
	return best
}

func requirePermutation(t *testing.T, order []int, n int) {
	t.Helper()
	require.Len(t, order, n-1)
	sorted := slices.Sorted(slices.Values(order))
	for i, v := range sorted {
		require.Equal(t, i+1, v)
	}
}

func TestHeldKarpMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for _, n := range []int{3, 4, 5, 6, 7, 8} {
		for trial := range 20 {
			dist := randomMatrix(rng, n)

			order, err := HeldKarp(dist)
			require.NoError(t, err)
			requirePermutation(t, order, n)
			assert.Equal(t, bruteForce(dist), PathCost(dist, order), "n=%d trial=%d", n, trial)
		}
	}
}

func TestHeldKarpSmallInstances(t *testing.T) {
	order, err := HeldKarp(nil)
	require.NoError(t, err)
	assert.Empty(t, order)

	order, err = HeldKarp([][]int{{0}})
	require.NoError(t, err)
	assert.Empty(t, order)

	order, err = HeldKarp([][]int{{0, 9}, {9, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, order)
}

func TestHeldKarpOpenPath(t *testing.T) {
	// Start 0 on a line: 0 -- 1 -- 2 -- 3. The open path walks outwards
	// and never pays the return leg.
	dist := [][]int{
		{0, 1, 2, 3},
		{1, 0, 1, 2},
		{2, 1, 0, 1},
		{3, 2, 1, 0},
	}
	order, err := HeldKarp(dist)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 3, PathCost(dist, order))
}

func TestHeldKarpDuplicateLocations(t *testing.T) {
	// Targets 1 and 2 share a tile.
	dist := [][]int{
		{0, 5, 5, 2},
		{5, 0, 0, 3},
		{5, 0, 0, 3},
		{2, 3, 3, 0},
	}
	order, err := HeldKarp(dist)
	require.NoError(t, err)
	requirePermutation(t, order, 4)
	assert.Equal(t, 5, PathCost(dist, order))
	assert.Equal(t, 3, order[0])
}

func TestHeldKarpUnreachableNodeLast(t *testing.T) {
	const far = math.MaxInt32 / 2
	dist := [][]int{
		{0, far, 1, 2},
		{far, 0, far, far},
		{1, far, 0, 1},
		{2, far, 1, 0},
	}
	order, err := HeldKarp(dist)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, order)
}

func TestHeldKarpLargestDistances(t *testing.T) {
	const d = MaxDistance
	dist := [][]int{
		{0, d, d, 1},
		{d, 0, d, d},
		{d, d, 0, d},
		{1, d, d, 0},
	}
	order, err := HeldKarp(dist)
	require.NoError(t, err)
	requirePermutation(t, order, 4)
	assert.Equal(t, 3, order[0])
	assert.Equal(t, 1+2*d, PathCost(dist, order))
	assert.Positive(t, PathCost(dist, order))
}

func TestHeldKarpRejectsInvalid(t *testing.T) {
	_, err := HeldKarp([][]int{{0, 1}, {1}})
	assert.ErrorIs(t, err, ErrNotSquare)

	_, err = HeldKarp([][]int{{0, -1}, {-1, 0}})
	assert.ErrorIs(t, err, ErrNegativeDistance)

	_, err = HeldKarp([][]int{{0, math.MaxInt - 10}, {math.MaxInt - 10, 0}})
	assert.ErrorIs(t, err, ErrDistanceTooLarge)

	_, err = NearestNeighbor([][]int{{0, MaxDistance + 1}, {1, 0}})
	assert.ErrorIs(t, err, ErrDistanceTooLarge)

	big := make([][]int, MaxExactLimit+1)
	for i := range big {
		big[i] = make([]int, MaxExactLimit+1)
	}
	_, err = HeldKarp(big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestNearestNeighbor(t *testing.T) {
	dist := [][]int{
		{0, 4, 1, 9},
		{4, 0, 3, 2},
		{1, 3, 0, 7},
		{9, 2, 7, 0},
	}
	order, err := NearestNeighbor(dist)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3}, order)

	order, err = NearestNeighbor([][]int{{0}})
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestNearestNeighborVisitsAllWhenDisconnected(t *testing.T) {
	const far = math.MaxInt32 / 2
	n := 6
	dist := make([][]int, n)
	for i := range n {
		dist[i] = make([]int, n)
		for j := range n {
			if i != j {
				dist[i][j] = far
			}
		}
	}
	order, err := NearestNeighbor(dist)
	require.NoError(t, err)
	requirePermutation(t, order, n)
}

func TestHeuristicNeverBeatsExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for trial := range 5 {
		dist := randomMatrix(rng, 16)

		heuristic, err := Solve(dist, DefaultExactLimit)
		require.NoError(t, err)
		requirePermutation(t, heuristic, 16)

		exact, err := HeldKarp(dist)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, PathCost(dist, heuristic), PathCost(dist, exact), "trial %d", trial)
	}
}

func TestSolveSelectsMode(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	small := randomMatrix(rng, DefaultExactLimit)
	got, err := Solve(small, 0)
	require.NoError(t, err)
	want, err := HeldKarp(small)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	large := randomMatrix(rng, DefaultExactLimit+1)
	got, err = Solve(large, DefaultExactLimit)
	require.NoError(t, err)
	want, err = NearestNeighbor(large)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// A raised limit switches the same instance to the exact solver.
	got, err = Solve(large, DefaultExactLimit+1)
	require.NoError(t, err)
	want, err = HeldKarp(large)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

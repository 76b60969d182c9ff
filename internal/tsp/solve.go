package tsp

import (
	"errors"
	"fmt"
	"math"
)

// DefaultExactLimit is the largest node count (start included) solved exactly.
const DefaultExactLimit = 13

// MaxExactLimit bounds the exact solver's state space (n · 2ⁿ cells).
const MaxExactLimit = 20

// MaxDistance is the largest accepted matrix entry. A path over
// MaxExactLimit+1 legs of this length still fits in an int.
const MaxDistance = math.MaxInt / (MaxExactLimit + 1)

var (
	// ErrNotSquare is returned when a row length differs from the row count.
	ErrNotSquare = errors.New("tsp: distance matrix is not square")
	// ErrNegativeDistance is returned for any negative matrix entry.
	ErrNegativeDistance = errors.New("tsp: negative distance")
	// ErrDistanceTooLarge is returned for any matrix entry above MaxDistance.
	ErrDistanceTooLarge = errors.New("tsp: distance too large")
	// ErrTooLarge is returned when HeldKarp is asked to exceed MaxExactLimit nodes.
	ErrTooLarge = errors.New("tsp: instance too large for exact solver")
)

// Solve returns the visiting order of nodes 1..n-1, starting from node 0.
// Instances with at most exactLimit nodes use HeldKarp, the rest NearestNeighbor.
func Solve(dist [][]int, exactLimit int) ([]int, error) {
	if exactLimit <= 0 {
		exactLimit = DefaultExactLimit
	}
	if len(dist) <= exactLimit && len(dist) <= MaxExactLimit {
		return HeldKarp(dist)
	}
	return NearestNeighbor(dist)
}

// PathCost sums consecutive leg distances of order, starting at node 0.
func PathCost(dist [][]int, order []int) int {
	cost, cur := 0, 0
	for _, next := range order {
		cost += dist[cur][next]
		cur = next
	}
	return cost
}

func validate(dist [][]int) error {
	n := len(dist)
	for i, row := range dist {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d entries, want %d", ErrNotSquare, i, len(row), n)
		}
		for j, d := range row {
			if d < 0 {
				return fmt.Errorf("%w: dist[%d][%d]=%d", ErrNegativeDistance, i, j, d)
			}
			if d > MaxDistance {
				return fmt.Errorf("%w: dist[%d][%d]=%d, limit %d", ErrDistanceTooLarge, i, j, d, MaxDistance)
			}
		}
	}
	return nil
}

// HeldKarp returns an optimal open-path visiting order.
//
// dp[mask][last] is the cheapest cost of starting at 0, visiting exactly the
// nodes in mask (bit 0 always set) and ending at last. The answer is the
// minimum over last of dp[full][last]; there is no closing leg.
func HeldKarp(dist [][]int) ([]int, error) {
	if err := validate(dist); err != nil {
		return nil, err
	}

	n := len(dist)
	switch {
	case n <= 1:
		return []int{}, nil
	case n == 2:
		return []int{1}, nil
	case n > MaxExactLimit:
		return nil, fmt.Errorf("%w: %d nodes, limit %d", ErrTooLarge, n, MaxExactLimit)
	}

	const inf = math.MaxInt
	states := 1 << n
	dp := make([]int, states*n)
	parent := make([]int8, states*n)
	for i := range dp {
		dp[i] = inf
		parent[i] = -1
	}
	dp[1*n+0] = 0

	// Only masks containing the start (odd masks) are reachable.
	for mask := 1; mask < states; mask += 2 {
		for last := range n {
			cur := dp[mask*n+last]
			if cur == inf || mask&(1<<last) == 0 {
				continue
			}
			for next := 1; next < n; next++ {
				if mask&(1<<next) != 0 {
					continue
				}
				nm := mask | 1<<next
				cand := cur + dist[last][next]
				if cand < dp[nm*n+next] {
					dp[nm*n+next] = cand
					parent[nm*n+next] = int8(last)
				}
			}
		}
	}

	full := states - 1
	best := 1
	for last := 2; last < n; last++ {
		if dp[full*n+last] < dp[full*n+best] {
			best = last
		}
	}

	order := make([]int, n-1)
	mask, cur := full, best
	for i := n - 2; i >= 0; i-- {
		order[i] = cur
		prev := int(parent[mask*n+cur])
		mask ^= 1 << cur
		cur = prev
	}
	return order, nil
}

// NearestNeighbor greedily visits the closest unvisited node, ties going to
// the lower index. Every node 1..n-1 appears exactly once, even when all
// remaining distances are equal.
func NearestNeighbor(dist [][]int) ([]int, error) {
	if err := validate(dist); err != nil {
		return nil, err
	}

	n := len(dist)
	if n <= 1 {
		return []int{}, nil
	}

	visited := make([]bool, n)
	visited[0] = true
	order := make([]int, 0, n-1)

	cur := 0
	for range n - 1 {
		nearest := -1
		for next := 1; next < n; next++ {
			if visited[next] {
				continue
			}
			if nearest == -1 || dist[cur][next] < dist[cur][nearest] {
				nearest = next
			}
		}
		visited[nearest] = true
		order = append(order, nearest)
		cur = nearest
	}
	return order, nil
}

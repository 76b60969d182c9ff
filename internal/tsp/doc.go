// Package tsp orders stops of an open-path travelling salesman instance.
//
// Node 0 of the distance matrix is the fixed start; nodes 1..n-1 are the
// stops. The route does not return to the start. Small instances are
// solved exactly with Held–Karp dynamic programming, larger ones with the
// nearest-neighbour heuristic.
//
// Time complexity of the exact solver is O(n² · 2ⁿ), memory O(n · 2ⁿ).
package tsp

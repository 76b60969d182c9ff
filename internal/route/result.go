package route

import (
	"math"

	"github.com/udisondev/libroute/internal/geo"
	"github.com/udisondev/libroute/internal/tsp"
)

// UnreachableCost is the distance-matrix cost of a leg with no path.
// Large enough to push such legs last, small enough to sum without overflow.
const UnreachableCost = min(math.MaxInt32/2, tsp.MaxDistance)

// Target is a location the route must visit. Everything beyond the location
// is carried through untouched.
type Target interface {
	Location() geo.Tile
}

// Result is one published route. Treat it as read-only: it is shared by all readers.
type Result[T Target] struct {
	// Order is the visiting order of the requested targets.
	Order []T
	// Path is the concatenated walk; consecutive legs share no duplicate tile.
	Path []geo.Tile
	// Missing lists indices into Order whose leg had no path.
	Missing []int
}

// Complete reports whether every leg contributed a path.
func (r *Result[T]) Complete() bool {
	return len(r.Missing) == 0
}

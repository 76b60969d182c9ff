package geo

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tile is one cell of the navigable grid.
type Tile struct {
	X, Y, Level int32
}

// T is shorthand for Tile{X: x, Y: y, Level: level}.
func T(x, y, level int32) Tile {
	return Tile{X: x, Y: y, Level: level}
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d,%d)", t.X, t.Y, t.Level)
}

// ParseTile parses "x,y,level".
func ParseTile(s string) (Tile, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Tile{}, fmt.Errorf("parse tile %q: want x,y,level", s)
	}
	var v [3]int32
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return Tile{}, fmt.Errorf("parse tile %q: %w", s, err)
		}
		v[i] = int32(n)
	}
	return T(v[0], v[1], v[2]), nil
}

// Location returns t, so a bare Tile can be routed to.
func (t Tile) Location() Tile {
	return t
}

// Step returns the tile offset by (dx, dy) on the same level.
func (t Tile) Step(dx, dy int32) Tile {
	return Tile{X: t.X + dx, Y: t.Y + dy, Level: t.Level}
}

// Compare orders tiles by level, then Y, then X.
func (t Tile) Compare(o Tile) int {
	if c := cmp.Compare(t.Level, o.Level); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Y, o.Y); c != 0 {
		return c
	}
	return cmp.Compare(t.X, o.X)
}

// DistanceTo returns the Chebyshev distance between two tiles on the same
// level and math.MaxInt32 for tiles on different levels.
func (t Tile) DistanceTo(o Tile) int32 {
	if t.Level != o.Level {
		return math.MaxInt32
	}
	return max(abs32(t.X-o.X), abs32(t.Y-o.Y))
}

// RegionKey identifies one coarse region of the collision map.
type RegionKey struct {
	X, Y int32
}

func (k RegionKey) String() string {
	return fmt.Sprintf("%d_%d", k.X, k.Y)
}

// regionOf returns the region containing tile and the tile offset inside it.
// Floor division keeps negative coordinates in the correct region.
func regionOf(t Tile, size int32) (RegionKey, int32, int32) {
	rx, lx := floorDiv(t.X, size)
	ry, ly := floorDiv(t.Y, size)
	return RegionKey{X: rx, Y: ry}, lx, ly
}

func floorDiv(v, size int32) (int32, int32) {
	q, r := v/size, v%size
	if r < 0 {
		q--
		r += size
	}
	return q, r
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

package geo

import (
	"archive/zip"
	"bytes"
	"fmt"
	"maps"
	"slices"
)

// steps lists the eight unit moves in flag-bit order.
var steps = [8]struct{ dx, dy int32 }{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

// MapBuilder derives consistent flag bytes from a set of walkable tiles.
// A walkable tile may step towards every walkable neighbour; blocked
// tiles get MoveNone. Used by asset tooling and tests.
type MapBuilder struct {
	size     int32
	levels   int32
	walkable map[Tile]struct{}
}

// NewMapBuilder creates an empty builder (every tile blocked).
func NewMapBuilder(size, levels int32) *MapBuilder {
	return &MapBuilder{
		size:     size,
		levels:   levels,
		walkable: make(map[Tile]struct{}),
	}
}

// OpenArea marks the inclusive rectangle [x0..x1]×[y0..y1] on level as walkable.
func (b *MapBuilder) OpenArea(x0, y0, x1, y1, level int32) *MapBuilder {
	for y := min(y0, y1); y <= max(y0, y1); y++ {
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			b.walkable[T(x, y, level)] = struct{}{}
		}
	}
	return b
}

// Open marks single tiles as walkable.
func (b *MapBuilder) Open(tiles ...Tile) *MapBuilder {
	for _, t := range tiles {
		b.walkable[t] = struct{}{}
	}
	return b
}

// Block marks tiles as not walkable.
func (b *MapBuilder) Block(tiles ...Tile) *MapBuilder {
	for _, t := range tiles {
		delete(b.walkable, t)
	}
	return b
}

func (b *MapBuilder) flags(t Tile) byte {
	if _, ok := b.walkable[t]; !ok {
		return MoveNone
	}
	var f byte
	for i, s := range steps {
		if _, ok := b.walkable[t.Step(s.dx, s.dy)]; ok {
			f |= 1 << i
		}
	}
	return f
}

// Regions returns the raw (uncompressed) flag bytes of every touched region.
func (b *MapBuilder) Regions() map[RegionKey][]byte {
	out := make(map[RegionKey][]byte)
	for t := range b.walkable {
		if t.Level < 0 || t.Level >= b.levels {
			continue
		}
		key, _, _ := regionOf(t, b.size)
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = b.regionFlags(key)
	}
	return out
}

func (b *MapBuilder) regionFlags(key RegionKey) []byte {
	raw := make([]byte, RegionLen(b.size, b.levels))
	baseX, baseY := key.X*b.size, key.Y*b.size
	for level := range b.levels {
		for ly := range b.size {
			for lx := range b.size {
				raw[(level*b.size+ly)*b.size+lx] = b.flags(T(baseX+lx, baseY+ly, level))
			}
		}
	}
	return raw
}

// Build returns the Map without a compression round trip.
func (b *MapBuilder) Build() *Map {
	m := &Map{size: b.size, levels: b.levels, regions: make(map[RegionKey]*Region)}
	for key, raw := range b.Regions() {
		m.regions[key] = &Region{size: b.size, levels: b.levels, flags: raw}
	}
	return m
}

// Archive encodes every touched region into a zip archive.
func (b *MapBuilder) Archive() ([]byte, error) {
	regions := b.Regions()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, key := range slices.SortedFunc(maps.Keys(regions), compareRegionKeys) {
		payload, err := EncodeRegion(regions[key], b.size, b.levels)
		if err != nil {
			return nil, fmt.Errorf("encoding region %s: %w", key, err)
		}
		w, err := zw.Create(key.String())
		if err != nil {
			return nil, fmt.Errorf("creating entry %s: %w", key, err)
		}
		if _, err := w.Write(payload); err != nil {
			return nil, fmt.Errorf("writing entry %s: %w", key, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func compareRegionKeys(a, b RegionKey) int {
	if a.X != b.X {
		return int(a.X - b.X)
	}
	return int(a.Y - b.Y)
}

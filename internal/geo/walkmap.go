package geo

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
)

// ErrBadEntryName is returned for archive entries not named "<regionX>_<regionY>".
var ErrBadEntryName = errors.New("bad region entry name")

// Map is the decoded walkability map.
// Read-only after construction: safe for concurrent lookups.
type Map struct {
	size    int32
	levels  int32
	regions map[RegionKey]*Region
}

// NewMap decodes compressed region payloads into a Map.
// Any corrupt payload aborts construction.
func NewMap(compressed map[RegionKey][]byte, size, levels int32) (*Map, error) {
	if size <= 0 || levels <= 0 {
		return nil, fmt.Errorf("invalid map layout: size=%d levels=%d", size, levels)
	}

	m := &Map{
		size:    size,
		levels:  levels,
		regions: make(map[RegionKey]*Region, len(compressed)),
	}
	for key, data := range compressed {
		region, err := DecodeRegion(data, size, levels)
		if err != nil {
			return nil, fmt.Errorf("decoding region %s: %w", key, err)
		}
		m.regions[key] = region
	}
	return m, nil
}

// LoadArchive reads a zip archive of region payloads from disk.
func LoadArchive(file string, size, levels int32) (*Map, error) {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening collision map %s: %w", file, err)
	}
	defer zr.Close()

	m, err := readArchive(&zr.Reader, size, levels)
	if err != nil {
		return nil, fmt.Errorf("loading collision map %s: %w", file, err)
	}
	slog.Info("collision map loaded", "regions", m.RegionCount(), "file", file)
	return m, nil
}

// ReadArchive reads a zip archive of region payloads from r.
func ReadArchive(r io.ReaderAt, n int64, size, levels int32) (*Map, error) {
	zr, err := zip.NewReader(r, n)
	if err != nil {
		return nil, fmt.Errorf("reading collision map archive: %w", err)
	}
	return readArchive(zr, size, levels)
}

func readArchive(zr *zip.Reader, size, levels int32) (*Map, error) {
	compressed := make(map[RegionKey][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		key, err := ParseEntryName(f.Name)
		if err != nil {
			return nil, err
		}
		if _, dup := compressed[key]; dup {
			return nil, fmt.Errorf("duplicate region entry %q", f.Name)
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("reading region entry %q: %w", f.Name, err)
		}
		compressed[key] = data
	}
	return NewMap(compressed, size, levels)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ParseEntryName parses "<regionX>_<regionY>" with an optional extension.
func ParseEntryName(name string) (RegionKey, error) {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))

	xs, ys, ok := strings.Cut(base, "_")
	if !ok {
		return RegionKey{}, fmt.Errorf("%w: %q", ErrBadEntryName, name)
	}
	rx, err := strconv.ParseInt(xs, 10, 32)
	if err != nil {
		return RegionKey{}, fmt.Errorf("%w: %q", ErrBadEntryName, name)
	}
	ry, err := strconv.ParseInt(ys, 10, 32)
	if err != nil {
		return RegionKey{}, fmt.Errorf("%w: %q", ErrBadEntryName, name)
	}
	return RegionKey{X: int32(rx), Y: int32(ry)}, nil
}

// RegionCount returns the number of loaded regions.
func (m *Map) RegionCount() int {
	return len(m.regions)
}

// HasRegion reports whether the region containing t is loaded.
func (m *Map) HasRegion(t Tile) bool {
	key, _, _ := regionOf(t, m.size)
	_, ok := m.regions[key]
	return ok
}

// Flags returns the movement flags of t.
// Tiles in unloaded regions are fully blocked.
func (m *Map) Flags(t Tile) byte {
	key, lx, ly := regionOf(t, m.size)
	region, ok := m.regions[key]
	if !ok {
		return MoveNone
	}
	return region.Flags(lx, ly, t.Level)
}

// CanMove reports whether one step of (dx, dy) from t is permitted.
// Diagonal steps also require both orthogonal steps from t and the
// complementary steps from the two orthogonal neighbours (no corner cutting).
func (m *Map) CanMove(t Tile, dx, dy int32) bool {
	bit := directionBit(dx, dy)
	f := m.Flags(t)
	if bit == MoveNone || f&bit == 0 {
		return false
	}
	if dx == 0 || dy == 0 {
		return true
	}

	xBit := directionBit(dx, 0)
	yBit := directionBit(0, dy)
	return f&xBit != 0 && f&yBit != 0 &&
		m.Flags(t.Step(dx, 0))&yBit != 0 &&
		m.Flags(t.Step(0, dy))&xBit != 0
}

// directionBit returns the flag bit for a unit step, MoveNone otherwise.
func directionBit(dx, dy int32) byte {
	switch {
	case dx == 0 && dy == 1:
		return MoveNorth
	case dx == 1 && dy == 0:
		return MoveEast
	case dx == 0 && dy == -1:
		return MoveSouth
	case dx == -1 && dy == 0:
		return MoveWest
	case dx == 1 && dy == 1:
		return MoveNorthEast
	case dx == 1 && dy == -1:
		return MoveSouthEast
	case dx == -1 && dy == -1:
		return MoveSouthWest
	case dx == -1 && dy == 1:
		return MoveNorthWest
	default:
		return MoveNone
	}
}

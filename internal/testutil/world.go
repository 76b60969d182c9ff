package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/libroute/internal/geo"
)

// OpenGrid returns a builder with a fully walkable w×h area at the origin on level 0.
func OpenGrid(w, h int32) *geo.MapBuilder {
	return geo.NewMapBuilder(geo.DefaultRegionSize, geo.DefaultLevels).OpenArea(0, 0, w-1, h-1, 0)
}

// OpenFinder returns a pathfinder over OpenGrid(w, h) without transports.
func OpenFinder(w, h int32) *geo.Pathfinder {
	return geo.NewPathfinder(OpenGrid(w, h).Build(), nil)
}

// WriteArchive encodes b as a collision map archive in a temp dir and returns its path.
func WriteArchive(t testing.TB, b *geo.MapBuilder) string {
	t.Helper()

	archive, err := b.Archive()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "collision-map.zip")
	require.NoError(t, os.WriteFile(path, archive, 0o644))
	return path
}

package geo

// Collision map grid dimensions.
const (
	DefaultRegionSize = 64 // tiles per region edge
	DefaultLevels     = 4  // vertical levels stored per region
)

// Movement permission bits of a tile flag byte.
// A set bit means the agent may step from this tile in that direction.
const (
	MoveNorth     byte = 1 << 0 // y+1
	MoveEast      byte = 1 << 1 // x+1
	MoveSouth     byte = 1 << 2 // y-1
	MoveWest      byte = 1 << 3 // x-1
	MoveNorthEast byte = 1 << 4
	MoveSouthEast byte = 1 << 5
	MoveSouthWest byte = 1 << 6
	MoveNorthWest byte = 1 << 7

	MoveNone byte = 0x00
	MoveAll  byte = 0xFF
)

// Composite cardinal masks.
const (
	MoveCardinal  = MoveNorth | MoveEast | MoveSouth | MoveWest
	MoveDiagonals = MoveNorthEast | MoveSouthEast | MoveSouthWest | MoveNorthWest
)

// regionHeaderSize is the little-endian uint32 length prefix of a region payload.
const regionHeaderSize = 4

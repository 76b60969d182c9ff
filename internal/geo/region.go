package geo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ErrCorruptRegion is returned for truncated or malformed region payloads.
var ErrCorruptRegion = errors.New("corrupt region data")

// maxDecodeMemory caps zstd window allocation for a single region payload.
const maxDecodeMemory = 16 << 20

// Region holds the decoded flag bytes of one region, one byte per tile.
// Layout: level-major, then Y, then X.
type Region struct {
	size   int32
	levels int32
	flags  []byte
}

// RegionLen returns the decoded byte length of a region.
func RegionLen(size, levels int32) int {
	return int(size) * int(size) * int(levels)
}

// DecodeRegion expands a compressed region payload.
// Binary format: uint32 LE uncompressed length + zstd frame.
// The decoded length must equal RegionLen(size, levels).
func DecodeRegion(data []byte, size, levels int32) (*Region, error) {
	want := RegionLen(size, levels)
	if len(data) < regionHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrCorruptRegion, len(data), regionHeaderSize)
	}

	declared := binary.LittleEndian.Uint32(data)
	if int64(declared) != int64(want) {
		return nil, fmt.Errorf("%w: declared length %d, want %d", ErrCorruptRegion, declared, want)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecodeMemory),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	flags, err := dec.DecodeAll(data[regionHeaderSize:], make([]byte, 0, want))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRegion, err)
	}
	if len(flags) != want {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrCorruptRegion, len(flags), want)
	}

	return &Region{size: size, levels: levels, flags: flags}, nil
}

// EncodeRegion compresses raw flag bytes into the region payload format.
func EncodeRegion(flags []byte, size, levels int32) ([]byte, error) {
	if want := RegionLen(size, levels); len(flags) != want {
		return nil, fmt.Errorf("encode region: %d flag bytes, want %d", len(flags), want)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()

	out := make([]byte, regionHeaderSize, regionHeaderSize+len(flags)/8)
	binary.LittleEndian.PutUint32(out, uint32(len(flags)))
	return enc.EncodeAll(flags, out), nil
}

// Flags returns the flag byte at local (x, y) on the given level.
// Out-of-range coordinates read as MoveNone.
func (r *Region) Flags(localX, localY, level int32) byte {
	if localX < 0 || localX >= r.size || localY < 0 || localY >= r.size || level < 0 || level >= r.levels {
		return MoveNone
	}
	return r.flags[(level*r.size+localY)*r.size+localX]
}

package geo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSize   = int32(8)
	testLevels = int32(2)
)

func rawRegion(fill byte) []byte {
	raw := make([]byte, RegionLen(testSize, testLevels))
	for i := range raw {
		raw[i] = fill
	}
	return raw
}

func TestDecodeRegionRoundTrip(t *testing.T) {
	raw := rawRegion(MoveAll)
	raw[5] = MoveNone
	raw[len(raw)-1] = MoveNorth | MoveEast

	payload, err := EncodeRegion(raw, testSize, testLevels)
	require.NoError(t, err)
	assert.Equal(t, uint32(len(raw)), binary.LittleEndian.Uint32(payload))

	region, err := DecodeRegion(payload, testSize, testLevels)
	require.NoError(t, err)

	assert.Equal(t, MoveAll, region.Flags(0, 0, 0))
	assert.Equal(t, MoveNone, region.Flags(5, 0, 0))
	assert.Equal(t, MoveNorth|MoveEast, region.Flags(testSize-1, testSize-1, testLevels-1))
}

func TestRegionFlagsOutOfRange(t *testing.T) {
	region := &Region{size: testSize, levels: testLevels, flags: rawRegion(MoveAll)}

	assert.Equal(t, MoveNone, region.Flags(-1, 0, 0))
	assert.Equal(t, MoveNone, region.Flags(0, testSize, 0))
	assert.Equal(t, MoveNone, region.Flags(0, 0, testLevels))
	assert.Equal(t, MoveNone, region.Flags(0, 0, -1))
}

func TestDecodeRegionCorrupt(t *testing.T) {
	payload, err := EncodeRegion(rawRegion(MoveAll), testSize, testLevels)
	require.NoError(t, err)

	wrongLen := append([]byte(nil), payload...)
	binary.LittleEndian.PutUint32(wrongLen, 7)

	garbage := append([]byte(nil), payload[:regionHeaderSize]...)
	garbage = append(garbage, 0xDE, 0xAD, 0xBE, 0xEF)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 2}},
		{"header only", payload[:regionHeaderSize]},
		{"truncated frame", payload[:len(payload)-3]},
		{"wrong declared length", wrongLen},
		{"garbage frame", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := DecodeRegion(tt.data, testSize, testLevels)
			assert.ErrorIs(t, err, ErrCorruptRegion)
			assert.Nil(t, region)
		})
	}
}

func TestDecodeRegionSizeMismatch(t *testing.T) {
	// Valid frame for an 8x8x2 region decoded with a 16x16 layout.
	payload, err := EncodeRegion(rawRegion(MoveAll), testSize, testLevels)
	require.NoError(t, err)

	_, err = DecodeRegion(payload, 16, testLevels)
	assert.ErrorIs(t, err, ErrCorruptRegion)
}

func TestEncodeRegionWrongLength(t *testing.T) {
	_, err := EncodeRegion([]byte{1, 2, 3}, testSize, testLevels)
	assert.Error(t, err)
}

func FuzzDecodeRegion(f *testing.F) {
	valid, err := EncodeRegion(rawRegion(MoveAll), testSize, testLevels)
	require.NoError(f, err)

	f.Add(valid)
	f.Add(valid[:len(valid)/2])
	f.Add([]byte{})
	f.Add([]byte{0x80, 0, 0, 0, 0x28, 0xB5, 0x2F, 0xFD})

	f.Fuzz(func(t *testing.T, data []byte) {
		region, err := DecodeRegion(data, testSize, testLevels)
		if err != nil {
			require.ErrorIs(t, err, ErrCorruptRegion)
			require.Nil(t, region)
			return
		}
		require.Len(t, region.flags, RegionLen(testSize, testLevels))
	})
}

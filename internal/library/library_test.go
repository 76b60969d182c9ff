package library

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/libroute/internal/geo"
)

func TestLinks(t *testing.T) {
	links := Links()
	assert.Len(t, links, 20)

	for _, l := range links {
		assert.Equal(t, l.A.X, l.B.X)
		assert.Equal(t, l.A.Y, l.B.Y)
		assert.Equal(t, l.A.Level+1, l.B.Level)
	}
}

func TestTransportsConnectFloors(t *testing.T) {
	tr := Transports()
	assert.Equal(t, 40, tr.Len())

	ground := geo.T(1633, 3808, GroundFloor)
	middle := geo.T(1633, 3808, MiddleFloor)
	top := geo.T(1633, 3808, TopFloor)

	assert.Equal(t, []geo.Tile{middle}, tr.From(ground))
	assert.ElementsMatch(t, []geo.Tile{ground, top}, tr.From(middle))
	assert.Equal(t, []geo.Tile{middle}, tr.From(top))
}

func TestTransportsExtraLinks(t *testing.T) {
	a, b := geo.T(1600, 3800, 0), geo.T(1660, 3830, 2)
	tr := Transports(geo.Link{A: a, B: b})

	assert.Equal(t, 42, tr.Len())
	assert.Equal(t, []geo.Tile{b}, tr.From(a))
}

func TestBookcaseTarget(t *testing.T) {
	bc := Bookcase{ID: 7, Tile: geo.T(1626, 3795, 0), Books: []string{"Rada's Census"}}
	assert.Equal(t, geo.T(1626, 3795, 0), bc.Location())
	assert.Equal(t, "bookcase#7(1626,3795,0)", bc.String())
}

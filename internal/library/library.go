// Package library holds the Kourend library layout: bookcase targets and
// the staircases linking its three floors.
package library

import (
	"fmt"

	"github.com/udisondev/libroute/internal/geo"
)

// Floors in the library.
const (
	GroundFloor int32 = 0
	MiddleFloor int32 = 1
	TopFloor    int32 = 2
)

// Bookcase is a route target: a bookcase tile and the books it may hold.
type Bookcase struct {
	ID    int
	Tile  geo.Tile
	Books []string
}

// Location implements route.Target.
func (b Bookcase) Location() geo.Tile {
	return b.Tile
}

func (b Bookcase) String() string {
	return fmt.Sprintf("bookcase#%d%s", b.ID, b.Tile)
}

// stairwell is a staircase footprint present on every floor.
type stairwell struct {
	name  string
	tiles [][2]int32
}

var stairwells = []stairwell{
	{"center", [][2]int32{{1633, 3808}, {1632, 3808}, {1633, 3807}, {1632, 3807}}},
	{"northwest", [][2]int32{{1616, 3825}, {1617, 3825}}},
	{"southwest", [][2]int32{{1616, 3792}, {1617, 3792}}},
	{"northeast", [][2]int32{{1649, 3825}, {1650, 3825}}},
}

// Links returns the staircase links: each stairwell tile connects to the
// same tile one floor up, ground to middle and middle to top.
func Links() []geo.Link {
	var links []geo.Link
	for _, floor := range []int32{GroundFloor, MiddleFloor} {
		for _, sw := range stairwells {
			for _, xy := range sw.tiles {
				links = append(links, geo.Link{
					A: geo.T(xy[0], xy[1], floor),
					B: geo.T(xy[0], xy[1], floor+1),
				})
			}
		}
	}
	return links
}

// Transports builds the library transport graph plus any extra links.
func Transports(extra ...geo.Link) *geo.Transports {
	return geo.NewTransports(append(Links(), extra...)...)
}

package geo

import "slices"

// Pathfinder computes minimum-hop paths over the walkability map plus
// transport edges. Every move costs one hop, so breadth-first search is
// optimal. Safe for concurrent use: each search owns its state.
type Pathfinder struct {
	walk       *Map
	transports *Transports
}

// NewPathfinder creates a pathfinder. transports may be nil.
func NewPathfinder(walk *Map, transports *Transports) *Pathfinder {
	return &Pathfinder{walk: walk, transports: transports}
}

// ShortestPath returns the tiles from `from` to `to`, both inclusive.
// from == to yields an empty path. ok is false when `to` is unreachable;
// a partial path is never returned.
func (p *Pathfinder) ShortestPath(from, to Tile) (path []Tile, ok bool) {
	if from == to {
		return []Tile{}, true
	}

	parent, found := p.search(from, to)
	if !found {
		return nil, false
	}

	path = make([]Tile, 0, 32)
	for n := to; n != from; n = parent[n] {
		path = append(path, n)
	}
	path = append(path, from)
	slices.Reverse(path)
	return path, true
}

// ShortestDistance returns the hop count from `from` to `to`.
func (p *Pathfinder) ShortestDistance(from, to Tile) (int, bool) {
	path, ok := p.ShortestPath(from, to)
	if !ok {
		return 0, false
	}
	if len(path) == 0 {
		return 0, true
	}
	return len(path) - 1, true
}

// search runs BFS from `from` until `to` is discovered or the frontier is
// exhausted. Each tile enters the visited set once and unloaded tiles have
// no outgoing moves, so the search terminates on any map.
func (p *Pathfinder) search(from, to Tile) (map[Tile]Tile, bool) {
	parent := make(map[Tile]Tile, 256)
	parent[from] = from

	queue := make([]Tile, 0, 256)
	queue = append(queue, from)

	for head := 0; head < len(queue); head++ {
		current := queue[head]

		for _, next := range p.neighbors(current) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == to {
				return parent, true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// neighbors returns grid moves in flag-bit order followed by transport hops.
func (p *Pathfinder) neighbors(t Tile) []Tile {
	out := make([]Tile, 0, len(steps)+2)
	for _, s := range steps {
		if p.walk.CanMove(t, s.dx, s.dy) {
			out = append(out, t.Step(s.dx, s.dy))
		}
	}
	return append(out, p.transports.From(t)...)
}

package geo

import "slices"

// Link is a bidirectional non-adjacent connection such as a staircase.
type Link struct {
	A, B Tile
}

// Transports is the immutable transport graph.
// Every link is stored as two directed edges.
type Transports struct {
	edges map[Tile][]Tile
}

// NewTransports builds the graph from links. Duplicate links are kept once.
func NewTransports(links ...Link) *Transports {
	t := &Transports{edges: make(map[Tile][]Tile, len(links)*2)}
	for _, l := range links {
		t.add(l.A, l.B)
		t.add(l.B, l.A)
	}
	return t
}

func (t *Transports) add(from, to Tile) {
	if from == to || slices.Contains(t.edges[from], to) {
		return
	}
	t.edges[from] = append(t.edges[from], to)
}

// From returns the destinations reachable from tile in one transport hop.
// The returned slice must not be modified.
func (t *Transports) From(tile Tile) []Tile {
	if t == nil {
		return nil
	}
	return t.edges[tile]
}

// Len returns the number of directed edges.
func (t *Transports) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, dst := range t.edges {
		n += len(dst)
	}
	return n
}

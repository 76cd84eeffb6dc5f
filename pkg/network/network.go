package network

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrNodeOutOfRange is returned when a node index does not exist in the network.
var ErrNodeOutOfRange = errors.New("node index out of range")

// EdgeAttr tags an edge as highway/local and even/odd
type EdgeAttr struct {
	Highway bool `json:"highway"`
	Even    bool `json:"even"`
}

// Neighbor is one adjacency entry of a node
type Neighbor struct {
	Index int      `json:"index"`
	Attr  EdgeAttr `json:"attr"`
}

// Edge is an undirected connection between two nodes, From < To
type Edge struct {
	From int      `json:"from"`
	To   int      `json:"to"`
	Attr EdgeAttr `json:"attr"`
}

// Network is an immutable snapshot of a grown transport network
type Network struct {
	sites      []orb.Point
	elevations []float64
	adjacency  [][]Neighbor
	edges      []Edge
}

// NodeCount returns the number of registered sites
func (n *Network) NodeCount() int {
	return len(n.sites)
}

// Site returns the coordinates of node i. It panics if i is out of range.
func (n *Network) Site(i int) orb.Point {
	return n.sites[i]
}

// Elevation returns the elevation recorded when node i was registered
func (n *Network) Elevation(i int) float64 {
	return n.elevations[i]
}

// Neighbors returns the nodes adjacent to node i with the attributes of the
// connecting edges, in the order the edges were added
func (n *Network) Neighbors(i int) []Neighbor {
	out := make([]Neighbor, len(n.adjacency[i]))
	copy(out, n.adjacency[i])
	return out
}

// HasEdge reports whether i and j are connected, in either direction
func (n *Network) HasEdge(i, j int) bool {
	_, ok := n.edgeAttr(i, j)
	return ok
}

func (n *Network) edgeAttr(i, j int) (EdgeAttr, bool) {
	if i < 0 || i >= len(n.adjacency) {
		return EdgeAttr{}, false
	}
	for _, nb := range n.adjacency[i] {
		if nb.Index == j {
			return nb.Attr, true
		}
	}
	return EdgeAttr{}, false
}

// Edges returns every edge once, in insertion order
func (n *Network) Edges() []Edge {
	out := make([]Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// EdgeCount returns the number of unique edges
func (n *Network) EdgeCount() int {
	return len(n.edges)
}

func (n *Network) checkNode(i int) error {
	if i < 0 || i >= len(n.sites) {
		return fmt.Errorf("node %d of %d: %w", i, len(n.sites), ErrNodeOutOfRange)
	}
	return nil
}

// Builder assembles a Network from a registry and a stream of edges,
// dropping repeated unordered pairs
type Builder struct {
	net *Network
}

// NewBuilder creates a builder whose nodes are the sites of r
func NewBuilder(r *Registry) *Builder {
	net := &Network{
		sites:      make([]orb.Point, r.Len()),
		elevations: make([]float64, r.Len()),
		adjacency:  make([][]Neighbor, r.Len()),
	}
	copy(net.sites, r.sites)
	copy(net.elevations, r.elevations)
	return &Builder{net: net}
}

// AddEdge connects i and j unless they are already connected or equal.
// It reports whether a new edge was added.
func (b *Builder) AddEdge(i, j int, attr EdgeAttr) (bool, error) {
	if err := b.net.checkNode(i); err != nil {
		return false, err
	}
	if err := b.net.checkNode(j); err != nil {
		return false, err
	}
	if i == j || b.net.HasEdge(i, j) {
		return false, nil
	}

	b.net.adjacency[i] = append(b.net.adjacency[i], Neighbor{Index: j, Attr: attr})
	b.net.adjacency[j] = append(b.net.adjacency[j], Neighbor{Index: i, Attr: attr})

	from, to := i, j
	if from > to {
		from, to = to, from
	}
	b.net.edges = append(b.net.edges, Edge{From: from, To: to, Attr: attr})
	return true, nil
}

// Network returns the assembled network. The builder must not be used afterwards.
func (b *Builder) Network() *Network {
	net := b.net
	b.net = nil
	return net
}

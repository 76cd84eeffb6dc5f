package network

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Stats summarizes the shape of a network
type Stats struct {
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	HighwayEdges int     `json:"highwayEdges"`
	EvenEdges    int     `json:"evenEdges"`
	TotalLength  float64 `json:"totalLength"`
}

// Stats counts nodes and edges by attribute
func (n *Network) Stats() Stats {
	s := Stats{Nodes: n.NodeCount(), Edges: n.EdgeCount()}
	for _, e := range n.edges {
		if e.Attr.Highway {
			s.HighwayEdges++
		}
		if e.Attr.Even {
			s.EvenEdges++
		}
		s.TotalLength += planar.Distance(n.sites[e.From], n.sites[e.To])
	}
	return s
}

// LineStrings returns the network edges as line segments for visualization
func (n *Network) LineStrings() []orb.LineString {
	lines := make([]orb.LineString, 0, len(n.edges))
	for _, e := range n.edges {
		lines = append(lines, orb.LineString{n.sites[e.From], n.sites[e.To]})
	}
	return lines
}

// NearestNode finds the closest node to a given point. It returns -1 for an
// empty network.
func (n *Network) NearestNode(point orb.Point) (int, float64) {
	if len(n.sites) == 0 {
		return -1, math.MaxFloat64
	}

	nearestID := 0
	minDist := planar.Distance(point, n.sites[0])

	for i := 1; i < len(n.sites); i++ {
		dist := planar.Distance(point, n.sites[i])
		if dist < minDist {
			minDist = dist
			nearestID = i
		}
	}

	return nearestID, minDist
}

// Bound returns the bounding box of all sites
func (n *Network) Bound() orb.Bound {
	if len(n.sites) == 0 {
		return orb.Bound{}
	}
	return orb.MultiPoint(n.sites).Bound()
}

// PathLength sums the straight-line length of consecutive sites along a
// node path, independent of any routing weights
func (n *Network) PathLength(nodes []int) float64 {
	var length float64
	for i := 1; i < len(nodes); i++ {
		length += planar.Distance(n.sites[nodes[i-1]], n.sites[nodes[i]])
	}
	return length
}

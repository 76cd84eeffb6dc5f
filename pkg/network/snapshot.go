package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
)

// snapshotNode is the serialized form of a registered site
type snapshotNode struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Elevation float64 `json:"elevation"`
}

// snapshot is the JSON document written by Save
type snapshot struct {
	Nodes []snapshotNode `json:"nodes"`
	Edges []Edge         `json:"edges"`
}

// MarshalJSON encodes the network as a node list plus an edge list
func (n *Network) MarshalJSON() ([]byte, error) {
	snap := snapshot{
		Nodes: make([]snapshotNode, len(n.sites)),
		Edges: n.edges,
	}
	if snap.Edges == nil {
		snap.Edges = []Edge{}
	}
	for i, site := range n.sites {
		snap.Nodes[i] = snapshotNode{ID: i, X: site[0], Y: site[1], Elevation: n.elevations[i]}
	}
	return json.Marshal(snap)
}

// UnmarshalJSON rebuilds the network from a document produced by MarshalJSON
func (n *Network) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	r := NewRegistry()
	for i, node := range snap.Nodes {
		if node.ID != i {
			return fmt.Errorf("node %d listed at position %d", node.ID, i)
		}
		r.Add(orb.Point{node.X, node.Y}, node.Elevation)
	}

	b := NewBuilder(r)
	for _, e := range snap.Edges {
		if _, err := b.AddEdge(e.From, e.To, e.Attr); err != nil {
			return fmt.Errorf("edge %d-%d: %w", e.From, e.To, err)
		}
	}
	*n = *b.Network()
	return nil
}

// Write encodes the network as indented JSON to w
func (n *Network) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}

// Save serializes and saves the network to a JSON file
func Save(net *Network, filename string) error {
	data, err := json.MarshalIndent(net, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Load deserializes a network from a JSON file
func Load(filename string) (*Network, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var net Network
	if err := json.Unmarshal(data, &net); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network: %w", err)
	}
	return &net, nil
}

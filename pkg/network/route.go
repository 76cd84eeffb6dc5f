package network

import (
	"container/heap"
	"errors"
	"math"

	"github.com/paulmach/orb/planar"
)

// ErrNoRoute is returned when two nodes are not connected.
var ErrNoRoute = errors.New("no route between nodes")

// RouteOptions tunes ShortestPath edge costs
type RouteOptions struct {
	// HighwayFactor scales the cost of highway edges; values below 1 prefer
	// highways. Zero means 1.
	HighwayFactor float64
}

// searchNode represents a node in the A* search
type searchNode struct {
	nodeID int
	g      float64 // Cost from start to this node
	f      float64 // g + heuristic
	parent *searchNode
	index  int // Index in the heap
}

// searchQueue implements heap.Interface for the A* open set
type searchQueue []*searchNode

func (pq searchQueue) Len() int { return len(pq) }

func (pq searchQueue) Less(i, j int) bool {
	return pq[i].f < pq[j].f
}

func (pq searchQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *searchQueue) Push(x interface{}) {
	node := x.(*searchNode)
	node.index = len(*pq)
	*pq = append(*pq, node)
}

func (pq *searchQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// ShortestPath computes the cheapest route between two nodes using A* with
// Euclidean edge lengths. It returns the visited node indices and the total cost.
func (n *Network) ShortestPath(from, to int, opts RouteOptions) ([]int, float64, error) {
	if err := n.checkNode(from); err != nil {
		return nil, 0, err
	}
	if err := n.checkNode(to); err != nil {
		return nil, 0, err
	}

	factor := opts.HighwayFactor
	if factor <= 0 {
		factor = 1
	}
	// keep the heuristic admissible when highways are discounted
	hScale := math.Min(factor, 1)
	goal := n.sites[to]
	heuristic := func(i int) float64 {
		return planar.Distance(n.sites[i], goal) * hScale
	}

	openSet := &searchQueue{}
	heap.Init(openSet)

	start := &searchNode{nodeID: from, f: heuristic(from)}
	heap.Push(openSet, start)

	closedSet := make(map[int]bool)
	openSetMap := map[int]*searchNode{from: start}

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.nodeID)

		if current.nodeID == to {
			path := []int{}
			for node := current; node != nil; node = node.parent {
				path = append([]int{node.nodeID}, path...)
			}
			return path, current.g, nil
		}

		closedSet[current.nodeID] = true

		for _, nb := range n.adjacency[current.nodeID] {
			if closedSet[nb.Index] {
				continue
			}

			cost := planar.Distance(n.sites[current.nodeID], n.sites[nb.Index])
			if nb.Attr.Highway {
				cost *= factor
			}
			tentativeG := current.g + cost

			neighbor, exists := openSetMap[nb.Index]
			if !exists {
				neighbor = &searchNode{
					nodeID: nb.Index,
					g:      tentativeG,
					f:      tentativeG + heuristic(nb.Index),
					parent: current,
				}
				heap.Push(openSet, neighbor)
				openSetMap[nb.Index] = neighbor
			} else if tentativeG < neighbor.g {
				// Found a better path to this neighbor
				neighbor.g = tentativeG
				neighbor.f = tentativeG + heuristic(nb.Index)
				neighbor.parent = current
				heap.Fix(openSet, neighbor.index)
			}
		}
	}

	return nil, 0, ErrNoRoute
}

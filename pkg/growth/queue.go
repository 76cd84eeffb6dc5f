package growth

import (
	"container/heap"

	"github.com/paulmach/orb"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

// candidate is a proposed edge from a registered site to a not yet
// registered endpoint
type candidate struct {
	start        int
	end          orb.Point
	endElevation float64
	angle        float64
	cost         float64
	attr         network.EdgeAttr
	seq          int // insertion order, breaks cost ties
}

// candidateQueue implements heap.Interface, cheapest candidate first
type candidateQueue []*candidate

func (pq candidateQueue) Len() int { return len(pq) }

func (pq candidateQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].seq < pq[j].seq
}

func (pq candidateQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *candidateQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*candidate))
}

func (pq *candidateQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return c
}

// pending is the FIFO-on-ties priority queue used by one run
type pending struct {
	queue candidateQueue
	seq   int
}

func (p *pending) push(c *candidate) {
	c.seq = p.seq
	p.seq++
	heap.Push(&p.queue, c)
}

func (p *pending) pop() (*candidate, bool) {
	if p.queue.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&p.queue).(*candidate), true
}

func (p *pending) len() int {
	return p.queue.Len()
}

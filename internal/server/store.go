package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

// entry is a grown network kept in memory
type entry struct {
	ID      string
	Network *network.Network
	Stats   growth.Stats
	Seed    int64
	Created time.Time
}

// store keeps networks by ID. When max > 0 the oldest entries are evicted
// once it is exceeded.
type store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	max     int
}

func newStore(max int) *store {
	return &store{entries: make(map[string]*entry), max: max}
}

// add stores net under a fresh ID and returns the entry
func (s *store) add(net *network.Network, stats growth.Stats, seed int64) *entry {
	e := &entry{
		ID:      uuid.NewString(),
		Network: net,
		Stats:   stats,
		Seed:    seed,
		Created: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	s.order = append(s.order, e.ID)
	for s.max > 0 && len(s.order) > s.max {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}
	return e
}

func (s *store) get(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// list returns entries oldest first
func (s *store) list() []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

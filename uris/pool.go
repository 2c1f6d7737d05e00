package uris

import (
	"sync"
	"weak"
)

// Pool interns URI strings. Entries are held weakly: once no live URI refers
// to a canonical string the garbage collector may reclaim it, and the next
// capacity-triggered sweep drops the dead map entry. The pool is safe for
// concurrent use; it is the only piece of the engine shared across extractor
// instances.
type Pool struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]weak.Pointer[string]
}

// DefaultCapacity is the sweep threshold of the package-level pool.
const DefaultCapacity = 1 << 16

var defaultPool = NewPool(DefaultCapacity)

// NewPool returns a pool that sweeps dead entries whenever the map grows past
// capacity. Capacity <= 0 falls back to DefaultCapacity.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		capacity: capacity,
		entries:  make(map[string]weak.Pointer[string]),
	}
}

// intern returns the canonical pointer for s, creating it if needed.
func (p *Pool) intern(s string) *string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if wp, ok := p.entries[s]; ok {
		if sp := wp.Value(); sp != nil {
			return sp
		}
		// Entry died between sweeps; re-create it.
	}
	if len(p.entries) >= p.capacity {
		p.sweepLocked()
	}
	sp := new(string)
	*sp = s
	p.entries[s] = weak.Make(sp)
	return sp
}

// sweepLocked removes entries whose canonical string has been collected.
// Entries still referenced by a live URI are never removed.
func (p *Pool) sweepLocked() {
	for k, wp := range p.entries {
		if wp.Value() == nil {
			delete(p.entries, k)
		}
	}
}

// Len reports the number of interned entries, dead or alive.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

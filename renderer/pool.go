// Package renderer owns everything GPU-facing: the bounded instance slot
// pool, per-entity orientation smoothing, and the dispatch layer that maps
// live entities onto instanced or individually managed meshes. No other
// package touches GPU resources.
package renderer

// SlotPool hands out instance slot indices for the batched draw path.
// Released slots go onto a free list and are reused before the high-water
// counter advances, so long sessions with heavy churn stay bounded by the
// pool capacity instead of leaking interior slots.
type SlotPool struct {
	capacity int
	next     int // high-water mark: first never-used slot
	free     []int
}

// NewSlotPool creates a pool with the given fixed capacity.
func NewSlotPool(capacity int) *SlotPool {
	return &SlotPool{
		capacity: capacity,
		free:     make([]int, 0, 32),
	}
}

// Acquire returns a free slot index, preferring recycled slots. The second
// result is false when the pool is exhausted; callers treat that as a
// non-fatal skip, not an error.
func (p *SlotPool) Acquire() (int, bool) {
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return slot, true
	}
	if p.next < p.capacity {
		slot := p.next
		p.next++
		return slot, true
	}
	return 0, false
}

// Release returns a slot to the free list for reuse.
func (p *SlotPool) Release(slot int) {
	p.free = append(p.free, slot)
}

// InUse returns the number of currently assigned slots.
func (p *SlotPool) InUse() int { return p.next - len(p.free) }

// HighWater returns the highest slot count ever assigned at once.
func (p *SlotPool) HighWater() int { return p.next }

// Capacity returns the fixed pool capacity.
func (p *SlotPool) Capacity() int { return p.capacity }

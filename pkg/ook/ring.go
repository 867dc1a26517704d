package ook

import "sync"

// DefaultRingSize is the number of unread codes kept by a Ring.
const DefaultRingSize = 16

// Ring is a fixed size FIFO of completed codes with a single producer and a
// single consumer. When it is full the oldest unread code is dropped, the
// producer never waits for the consumer.
//
// The ring has one slot more than its capacity: the producer assembles the
// next code in place in the write slot, which is never readable.
type Ring struct {
	// mu guards the indexes and the valid flags of the committed slots.
	mu    sync.Mutex
	slots []Code
	read  int
	write int
	// dropped counts the codes overwritten before they were read.
	dropped uint64
}

// NewRing creates a ring that keeps up to size unread codes.
func NewRing(size int) *Ring {
	if size < 1 {
		size = DefaultRingSize
	}
	return &Ring{slots: make([]Code, size+1)}
}

// Cap returns the number of unread codes the ring can keep.
func (r *Ring) Cap() int {
	return len(r.slots) - 1
}

// Push copies the code into the write slot and commits it.
func (r *Ring) Push(c Code) {
	*r.slot() = c
	r.commit()
}

// Pop takes the oldest unread code.
func (r *Ring) Pop() (Code, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// the write slot belongs to the producer
	if r.read == r.write {
		return Code{}, false
	}

	c := r.slots[r.read]
	r.slots[r.read].valid = false
	r.read = r.next(r.read)
	return c, true
}

// Len returns the number of unread codes.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return (r.write - r.read + len(r.slots)) % len(r.slots)
}

// Dropped returns the number of codes lost because the ring was full.
func (r *Ring) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// slot returns the write slot. Only the producer may call it.
func (r *Ring) slot() *Code {
	return &r.slots[r.write]
}

// commit marks the write slot readable and moves on to the next slot,
// dropping the oldest unread code if that slot still holds one.
func (r *Ring) commit() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[r.write].valid = true
	r.write = r.next(r.write)

	if r.write == r.read {
		r.slots[r.write].valid = false
		r.read = r.next(r.read)
		r.dropped++
	}
}

func (r *Ring) next(i int) int {
	i++
	if i >= len(r.slots) {
		i = 0
	}
	return i
}

// Package ook decodes on-off keyed pulse trains of cheap 433MHz remote controls.
//
// A Decoder is fed with the timestamp of every edge of the demodulated
// signal. It learns the 0-bit and 1-bit durations of each message from the
// message itself, assembles the bits in place in a Ring slot and commits
// complete messages to the Ring, from where a consumer pops and finalises them.
package ook

import "sync/atomic"

// Message lengths in sampled bits. The two preamble durations and the final
// bit (extended by the post pause) are never sampled.
const (
	MinLength = MinCodeLength - 1
	MaxLength = MaxCodeLength - 1
)

// Stats are counters of the message assembly.
type Stats struct {
	// Completed is the number of messages committed to the ring.
	Completed uint64
	// TooShort is the number of messages terminated by a pause before MinLength bits.
	TooShort uint64
	// Aborted is the number of messages dropped because of invalid timing or length.
	Aborted uint64
	// Dropped is the number of completed messages lost because the ring was full.
	Dropped uint64
}

// sampling is the state of the message in progress.
type sampling struct {
	// sampleMin and sampleMax are the extremes of the sampled 0-bit and 1-bit durations.
	sampleMin [2]uint32
	sampleMax [2]uint32
	// complete is set once the bit timing has been learned and checked.
	complete bool
	// bitTime are the learned bit durations.
	bitTime BitTiming
	// minPause and maxPause is the range of the post pause.
	minPause, maxPause uint32
	// start is the timestamp of the first edge after the pre pause.
	start uint32
}

// Decoder assembles messages from edge timings, one per receiver pin.
//
// OnEdge must be called from a single goroutine. Pop may be called
// concurrently from another goroutine.
type Decoder struct {
	// counters first, 64 bit atomics must be aligned on 32 bit platforms
	completed uint64
	tooShort  uint64
	aborted   uint64

	ring *Ring

	// last is the timestamp of the previous edge.
	last uint32
	// code is the message in progress, nil while waiting for a pause.
	code *Code
	// standalone is false if the next pause follows a completed message.
	standalone bool
	data       sampling
}

// NewDecoder creates a decoder that keeps up to ringSize unread codes.
func NewDecoder(ringSize int) *Decoder {
	return &Decoder{
		ring:       NewRing(ringSize),
		standalone: true,
	}
}

// Pop takes the oldest unread code. The code still has to be finalised.
func (d *Decoder) Pop() (Code, bool) {
	return d.ring.Pop()
}

// Stats returns a snapshot of the counters.
func (d *Decoder) Stats() Stats {
	return Stats{
		Completed: atomic.LoadUint64(&d.completed),
		TooShort:  atomic.LoadUint64(&d.tooShort),
		Aborted:   atomic.LoadUint64(&d.aborted),
		Dropped:   d.ring.Dropped(),
	}
}

// OnEdge processes an edge at the timestamp now in microseconds.
// The timestamp may wrap, durations are computed modulo 2^32.
//
// A duration that ends a message, successfully or not, is checked again as
// the pause in front of the next message.
func (d *Decoder) OnEdge(now uint32) {
	duration := now - d.last

	if d.code != nil && !d.sample(duration) {
		d.code = nil
	}

	if d.code == nil {
		d.awaitPause(now, duration)
	}

	d.last = now
}

// awaitPause starts a new message if duration is long enough to be a pause.
func (d *Decoder) awaitPause(now, duration uint32) {
	if duration < MinPauseUS {
		d.standalone = true
		return
	}

	d.code = d.ring.slot()
	d.code.reset()
	d.code.PrePauseTime = duration

	d.data = sampling{
		sampleMin: [2]uint32{^uint32(0), ^uint32(0)},
		start:     now,
	}
	d.data.minPause, d.data.maxPause = PauseRange(duration)
}

// sample processes a duration of the message in progress.
// It returns false when the message has ended.
func (d *Decoder) sample(duration uint32) bool {
	c := d.code

	switch {
	case duration < MinBitUS:
		return d.abort()

	case c.PreambleTime[0] == 0:
		if duration > MaxBitUS {
			return d.abort()
		}
		c.PreambleTime[0] = duration
		return true

	case c.PreambleTime[1] == 0:
		if duration > MaxBitUS {
			return d.abort()
		}
		c.PreambleTime[1] = duration
		return true

	case !d.data.complete:
		return d.calibrate(duration)

	case duration >= d.data.minPause && duration <= d.data.maxPause:
		return d.complete(duration)

	case c.Len() >= MaxLength:
		// too long
		return d.abort()

	case duration >= d.data.bitTime.MinZero() && duration <= d.data.bitTime.MaxZero():
		c.addBit(0, duration)
		return true

	case duration >= d.data.bitTime.MinOne() && duration <= d.data.bitTime.MaxOne():
		c.addBit(1, duration)
		return true
	}

	// invalid duration
	return d.abort()
}

// calibrate learns the bit durations from the first bits of a message.
func (d *Decoder) calibrate(duration uint32) bool {
	c := d.code
	t := &d.data.bitTime

	if duration > MaxBitUS {
		return d.abort()
	}

	var bit uint8
	switch {
	case t[0] == 0:
		// assume the first duration is a 0-bit
		t[0] = duration

	case LooksLonger(duration, t[0]):
		if t[1] == 0 {
			t[1] = duration
		} else {
			t[1] = (t[1] + duration) / 2
		}
		bit = 1

	case LooksLonger(t[0], duration):
		// the known 0-bit looks like a 1-bit relative to this one,
		// so the previous bits were 1-bits
		t[1], t[0] = t[0], duration

		d.data.sampleMin[0], d.data.sampleMin[1] = d.data.sampleMin[1], d.data.sampleMin[0]
		d.data.sampleMax[0], d.data.sampleMax[1] = d.data.sampleMax[1], d.data.sampleMax[0]
		c.BitTotalTime[0], c.BitTotalTime[1] = c.BitTotalTime[1], c.BitTotalTime[0]
		c.bits.Invert()

	default:
		t[0] = (t[0] + duration) / 2
	}

	c.addBit(bit, duration)

	if duration < d.data.sampleMin[bit] {
		d.data.sampleMin[bit] = duration
	}
	if duration > d.data.sampleMax[bit] {
		d.data.sampleMax[bit] = duration
	}

	if c.Len() >= MinSamples && t.Known() {
		if d.data.sampleMin[0] < t.MinZero() || d.data.sampleMax[0] > t.MaxZero() ||
			d.data.sampleMin[1] < t.MinOne() || d.data.sampleMax[1] > t.MaxOne() {
			return d.abort()
		}

		d.data.complete = true
	} else if c.Len() >= MaxSamples {
		// unable to identify the bit durations
		return d.abort()
	}

	return true
}

// complete ends the message at its post pause and commits it if it is long enough.
func (d *Decoder) complete(duration uint32) bool {
	c := d.code

	if c.Len() < MinLength {
		atomic.AddUint64(&d.tooShort, 1)
		d.standalone = false
		return false
	}

	c.Duration = (d.last - d.data.start) + d.data.bitTime[1]
	c.PostPauseTime = duration
	c.PrePauseStandalone = d.standalone
	c.PostPausePresent = true

	d.ring.commit()
	atomic.AddUint64(&d.completed, 1)

	d.standalone = false
	return false
}

// abort drops the message in progress.
func (d *Decoder) abort() bool {
	atomic.AddUint64(&d.aborted, 1)
	d.standalone = true
	return false
}

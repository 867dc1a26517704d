// Package transmitter bit-bangs OOK codes on a GPIO output pin.
package transmitter

import (
	"runtime"
	"sync"
	"time"

	"rf433ook/pkg/ook"
)

// Pin is the output line of the transmitter module.
type Pin interface {
	// Set drives the pin high (carrier on) or low (carrier off).
	Set(high bool)
}

// idler is a pin that has to signal the end of a transmission, e.g. a pin
// looped back to a decoder that completes a code only on the next edge.
type idler interface {
	Idle()
}

// Clock is a monotonic microsecond clock that wraps silently.
type Clock interface {
	Now() uint32
}

// MonotonicClock counts microseconds since its creation.
type MonotonicClock struct {
	epoch time.Time
}

// NewMonotonicClock creates a clock starting at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{epoch: time.Now()}
}

// Now returns the microseconds since the clock was created, modulo 2^32.
func (c *MonotonicClock) Now() uint32 {
	return uint32(time.Since(c.epoch) / time.Microsecond)
}

// Transmitter sends codes. A transmission blocks the caller until the post
// pause has elapsed, concurrent callers are serialized.
type Transmitter struct {
	// mu guards the configuration and the pin during a transmission
	mu     sync.Mutex
	pin    Pin
	clock  Clock
	config Config
	// silent suppresses console output
	silent bool

	// level is the next level written by toggle
	level bool
	// start is the deadline of the previous pulse
	start uint32
}

// New creates a transmitter and drives the pin low.
func New(pin Pin, clock Clock, config Config, silent bool) *Transmitter {
	pin.Set(false)
	return &Transmitter{
		pin:    pin,
		clock:  clock,
		config: config,
		silent: silent,
	}
}

// Config returns the current configuration.
func (t *Transmitter) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config
}

// SetConfig replaces the configuration.
func (t *Transmitter) SetConfig(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.config = c
	return nil
}

// Transmit sends the code repeat times. Preamble times carried by the code
// take precedence over the configured ones.
func (t *Transmitter) Transmit(code *ook.Code) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// keep the busy wait on one thread for the whole transmission
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg := t.config
	if code.HasPreamble() {
		cfg.PreambleTime = code.PreambleTime
	}

	t.start = t.clock.Now()
	t.pause(cfg.PrePauseTime)

	for n := uint32(0); n < cfg.Repeat; n++ {
		if n > 0 {
			t.pause(cfg.InterPauseTime)
		}

		if cfg.PreambleTime[0] != 0 || cfg.PreambleTime[1] != 0 {
			t.toggle(cfg.PreambleTime[0])
			t.toggle(cfg.PreambleTime[1])
		}

		for i := 0; i < code.Len(); i++ {
			t.toggle(cfg.BitTime[code.Bit(i)])
		}
	}

	t.pause(cfg.PostPauseTime)

	if i, ok := t.pin.(idler); ok {
		i.Idle()
	}
}

// toggle writes the next level and holds it for duration.
func (t *Transmitter) toggle(duration uint32) {
	t.pin.Set(t.level)
	t.wait(duration)
	t.level = !t.level
}

// pause drives the pin low for duration, the next toggle starts high.
func (t *Transmitter) pause(duration uint32) {
	t.pin.Set(false)
	t.wait(duration)
	t.level = true
}

// wait busy-waits until duration has elapsed since the previous deadline.
// Deadlines are absolute so delays of the pin write do not accumulate.
func (t *Transmitter) wait(duration uint32) {
	for t.clock.Now()-t.start < duration {
		// delay
	}
	t.start += duration
}

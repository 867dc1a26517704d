// Package raspberry binds the receiver and transmitter modules to gpio lines
package raspberry

import (
	"errors"
	"sync"
	"time"

	"rf433ook/pkg/port"
)

var (
	ErrInvalidParam = errors.New("invalid parameters")
	ErrNotSupported = errors.New("gpio not supported on this platform")
)

// Clock is a monotonic microsecond clock that wraps silently.
type Clock interface {
	Now() uint32
}

// EmuPin is an output pin looped back to an edge handler, e.g. to feed the
// transmitted codes into a decoder without any radio hardware.
// Edges are only emitted on a change of the level.
type EmuPin struct {
	m       sync.Mutex
	clock   Clock
	handler port.Handler
	level   bool
}

// NewEmuPin creates a low emulated pin. Edges are timestamped by clock.
func NewEmuPin(clock Clock, handler port.Handler) *EmuPin {
	return &EmuPin{clock: clock, handler: handler}
}

// Set drives the pin high or low.
func (p *EmuPin) Set(high bool) {
	p.m.Lock()
	defer p.m.Unlock()

	if high == p.level {
		return
	}
	p.level = high
	p.emit(high)
}

// Idle emits a short pulse on a low pin, like the noise a receiver outputs
// after the end of a transmission. The pulse terminates the pause after the
// last code, so that the code can be completed.
func (p *EmuPin) Idle() {
	p.m.Lock()
	defer p.m.Unlock()

	if p.level {
		return
	}
	p.emit(true)
	p.emit(false)
}

// Close drives the pin low.
func (p *EmuPin) Close() error {
	p.Set(false)
	return nil
}

func (p *EmuPin) emit(high bool) {
	evt := port.Event{
		Timestamp: time.Duration(p.clock.Now()) * time.Microsecond,
		Type:      port.FallingEdge,
	}
	if high {
		evt.Type = port.RisingEdge
	}
	p.handler(evt)
}

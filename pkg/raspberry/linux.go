//+build !windows

package raspberry

import (
	"time"

	"rf433ook/pkg/port"

	"github.com/warthog618/gpiod"
	"github.com/womat/debug"
)

// Chip represents a single GPIO chip that controls a set of lines.
type Chip struct {
	gpiodChip *gpiod.Chip
}

// Line represents a single requested input line.
type Line struct {
	gpiodLine *gpiod.Line
}

// Open opens a GPIO character device, e.g. gpiochip0.
func Open(name string) (*Chip, error) {
	c, err := gpiod.NewChip(name)
	if err != nil {
		return nil, err
	}
	return &Chip{gpiodChip: c}, nil
}

// NewLine requests control of a single line on a chip and watches it for edges.
//   Both edges are passed to the handler with the kernel timestamp, in the order they occurred.
//   The handler runs on the event goroutine of the line and must not block.
//   A debounce of 0 disables the kernel debounce filter.
func (c *Chip) NewLine(gpio int, terminator string, debounce time.Duration, handler port.Handler) (*Line, error) {
	var err error

	line := &Line{}

	eventHandler := func(evt gpiod.LineEvent) {
		switch evt.Type {
		case gpiod.LineEventRisingEdge:
			handler(port.Event{Type: port.RisingEdge, Timestamp: evt.Timestamp})
		case gpiod.LineEventFallingEdge:
			handler(port.Event{Type: port.FallingEdge, Timestamp: evt.Timestamp})
		default:
			debug.ErrorLog.Printf("invalid event type: %v", evt.Type)
		}
	}

	opts := []gpiod.LineReqOption{gpiod.WithEventHandler(eventHandler), gpiod.WithBothEdges, gpiod.AsInput}
	if debounce > 0 {
		opts = append(opts, gpiod.WithDebounce(debounce))
	}

	switch terminator {
	case "pullup":
		opts = append(opts, gpiod.WithPullUp)
	case "pulldown":
		opts = append(opts, gpiod.WithPullDown)
	case "none":
	default:
		return nil, ErrInvalidParam
	}

	if line.gpiodLine, err = c.gpiodChip.RequestLine(gpio, opts...); err != nil {
		return nil, err
	}

	debug.InfoLog.Printf("watching gpio %v (terminator %v, debounce %v)", gpio, terminator, debounce)
	return line, nil
}

// Close releases the Chip.
//
// It does not release any lines which may be requested - they must be closed
// independently.
func (c *Chip) Close() error {
	return c.gpiodChip.Close()
}

// Close releases all resources held by the requested line.
//
// Note that this includes waiting for any running event handler to return.
// As a consequence the Close must not be called from the context of the event
// handler - the Close should be called from a different goroutine.
func (l *Line) Close() error {
	return l.gpiodLine.Close()
}

//+build windows

package raspberry

import (
	"time"

	"rf433ook/pkg/port"
)

// Chip is not available on windows, use the loopback mode for testing.
type Chip struct{}

// Line is not available on windows.
type Line struct{}

// OutputPin is not available on windows.
type OutputPin struct{}

// Open always fails on windows.
func Open(string) (*Chip, error) {
	return nil, ErrNotSupported
}

// NewLine always fails on windows.
func (c *Chip) NewLine(int, string, time.Duration, port.Handler) (*Line, error) {
	return nil, ErrNotSupported
}

// Close releases the Chip.
func (c *Chip) Close() error {
	return nil
}

// Close releases the Line.
func (l *Line) Close() error {
	return nil
}

// NewOutputPin always fails on windows.
func NewOutputPin(int) (*OutputPin, error) {
	return nil, ErrNotSupported
}

// Set does nothing.
func (p *OutputPin) Set(bool) {}

// Pin returns -1.
func (p *OutputPin) Pin() int {
	return -1
}

// Close releases the OutputPin.
func (p *OutputPin) Close() error {
	return nil
}

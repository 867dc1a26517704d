//+build !windows

package raspberry

import (
	"fmt"
	"sync"

	"github.com/warthog618/gpio"
)

// OutputPin drives a gpio through the memory mapped registers.
// Register writes take well below a microsecond, which the bit-banged
// transmitter needs for its pulse timing.
type OutputPin struct {
	gpioPin *gpio.Pin
}

var (
	// open counts the output pins using the gpio memory.
	open int
	om   sync.Mutex
)

// NewOutputPin maps the GPIO memory from /dev/gpiomem and sets the pin as low output.
// The pin number provided is the BCM GPIO number.
func NewOutputPin(p int) (*OutputPin, error) {
	om.Lock()
	defer om.Unlock()

	if open == 0 {
		if err := gpio.Open(); err != nil {
			return nil, fmt.Errorf("can't open gpio memory: %w", err)
		}
	}
	open++

	pin := gpio.NewPin(p)
	pin.Low()
	pin.Output()
	return &OutputPin{gpioPin: pin}, nil
}

// Set drives the pin high or low.
func (p *OutputPin) Set(high bool) {
	p.gpioPin.Write(gpio.Level(high))
}

// Pin returns the pin number that this Pin represents.
func (p *OutputPin) Pin() int {
	return p.gpioPin.Pin()
}

// Close drives the pin low, sets it as input and unmaps the GPIO memory after the last pin.
func (p *OutputPin) Close() error {
	om.Lock()
	defer om.Unlock()

	p.gpioPin.Low()
	p.gpioPin.Input()

	if open--; open == 0 {
		return gpio.Close()
	}
	return nil
}

package app

import (
	"rf433ook/pkg/port"
	"rf433ook/pkg/raspberry"
	"rf433ook/pkg/transmitter"

	"github.com/womat/debug"
)

// onEdge is the edge handler of the receiver line, it runs on the event goroutine of the line.
func (app *App) onEdge(evt port.Event) {
	app.decoder.OnEdge(evt.Micros())
}

// openReceiver watches the receiver line for edges.
func (app *App) openReceiver() (err error) {
	c := app.config.Receiver
	if !c.Enabled {
		debug.InfoLog.Print("receiver disabled")
		return nil
	}

	if app.chip, err = raspberry.Open(c.Chip); err != nil {
		return err
	}

	app.line, err = app.chip.NewLine(c.Gpio, c.Terminator, c.Debounce, app.onEdge)
	return err
}

// openTransmitter sets the transmitter pin as output.
func (app *App) openTransmitter() error {
	c := app.config.Transmitter
	if !c.Enabled {
		debug.InfoLog.Print("transmitter disabled")
		return nil
	}

	pin, err := raspberry.NewOutputPin(c.Gpio)
	if err != nil {
		return err
	}

	app.pin = pin
	app.transmitter = transmitter.New(pin, transmitter.NewMonotonicClock(), c.Timing, c.Silent)
	debug.InfoLog.Printf("transmitter on gpio %v: %v", c.Gpio, c.Timing)
	return nil
}

// openLoopback feeds the transmitter output into the decoder, no gpio is used.
func (app *App) openLoopback() {
	c := app.config.Transmitter
	clock := transmitter.NewMonotonicClock()
	pin := raspberry.NewEmuPin(clock, app.onEdge)

	app.pin = pin
	app.transmitter = transmitter.New(pin, clock, c.Timing, c.Silent)
	debug.InfoLog.Printf("loopback transmitter: %v", c.Timing)
}

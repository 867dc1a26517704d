package app

import (
	"errors"
	"io"
	"os"

	"github.com/jacobsa/go-serial/serial"
	"github.com/womat/debug"
)

// stdio is the console on stdin and stdout.
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error {
	return nil
}

// openConsole opens the line protocol stream of the transmitter.
func (app *App) openConsole() (err error) {
	c := app.config.Console

	switch {
	case c.Device == "":
		return nil
	case app.transmitter == nil:
		debug.InfoLog.Print("console without transmitter ignored")
		return nil
	case c.Device == "stdin":
		app.console = stdio{Reader: os.Stdin, Writer: os.Stdout}
	default:
		options := serial.OpenOptions{
			PortName:        c.Device,
			BaudRate:        c.BaudRate,
			DataBits:        8,
			StopBits:        1,
			ParityMode:      serial.PARITY_NONE,
			MinimumReadSize: 1,
		}
		if app.console, err = serial.Open(options); err != nil {
			return err
		}
	}

	debug.InfoLog.Printf("console on %v", c.Device)
	return nil
}

// runConsole processes console lines until the stream is closed.
func (app *App) runConsole() {
	err := app.transmitter.ProcessInput(app.console, app.console)
	if errors.Is(err, io.EOF) {
		debug.InfoLog.Print("console closed")
		return
	}
	debug.ErrorLog.Printf("console: %v", err)
}

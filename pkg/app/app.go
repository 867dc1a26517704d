package app

import (
	"io"
	"net/url"

	"rf433ook/pkg/app/config"
	"rf433ook/pkg/mqtt"
	"rf433ook/pkg/ook"
	"rf433ook/pkg/raspberry"
	"rf433ook/pkg/transmitter"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// chip and line are the gpio character device and the receiver line
	chip *raspberry.Chip
	line *raspberry.Line

	// pin is the output pin of the transmitter module
	pin io.Closer

	// decoder assembles the codes of the receiver line
	decoder *ook.Decoder

	// transmitter sends the codes of the console and the transmit web service
	transmitter *transmitter.Transmitter

	// console is the line protocol stream (stdin or serial device)
	console io.ReadWriteCloser

	// records are the most recent decode records
	records *history

	// restart signals application restart
	restart chan struct{}
	// shutdown signals application shutdown
	shutdown chan struct{}
}

// New checks the Web server URL and initialize the main app structure
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	return &App{
		config:    config,
		urlParsed: u,

		web:     fiber.New(),
		mqtt:    mqtt.New(),
		decoder: ook.NewDecoder(config.Receiver.RingSize),
		records: newHistory(config.Receiver.History),

		restart:  make(chan struct{}),
		shutdown: make(chan struct{}),
	}, err
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()
	go app.receive()

	if app.console != nil {
		go app.runConsole()
	}

	return nil
}

// init initializes the application.
func (app *App) init() (err error) {
	if app.config.Loopback {
		app.openLoopback()
	} else {
		if err = app.openReceiver(); err != nil {
			debug.ErrorLog.Printf("can't open receiver: %v", err)
			return err
		}
		if err = app.openTransmitter(); err != nil {
			debug.ErrorLog.Printf("can't open transmitter: %v", err)
			return err
		}
	}

	if err = app.openConsole(); err != nil {
		debug.ErrorLog.Printf("can't open console: %v", err)
		return err
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection, app.config.MQTT.ClientID); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	// initDefaultRoutes should be always called last because it may access things like app.transmitter
	// which must be initialized before
	app.initDefaultRoutes()

	return nil
}

// Restart returns the read only restart channel.
// Restart is used to be able to react on application restart. (see cmd/main.go)
func (app *App) Restart() <-chan struct{} {
	return app.restart
}

// Shutdown returns the read only shutdown channel.
// Shutdown is used to be able to react on application shutdown. (see cmd/main.go)
func (app *App) Shutdown() <-chan struct{} {
	return app.shutdown
}

func (app *App) Close() error {
	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}
	if app.console != nil {
		_ = app.console.Close()
	}
	if app.line != nil {
		_ = app.line.Close()
	}
	if app.chip != nil {
		_ = app.chip.Close()
	}
	if app.pin != nil {
		_ = app.pin.Close()
	}
	return nil
}

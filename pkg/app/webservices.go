package app

import (
	"bytes"
	"net/http"
	"strings"

	"rf433ook/pkg/transmitter"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData returns the most recent decode records, oldest first.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		return ctx.JSON(app.records.get())
	}
}

// HandleTransmit processes the request body as console lines and returns the console output.
//  e.g.: curl -d 'S=0,565655665666+5' http://localhost:4000/transmit
func (app *App) HandleTransmit() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request transmit")

		if app.transmitter == nil {
			return fiber.NewError(http.StatusServiceUnavailable, "transmitter disabled")
		}

		var out bytes.Buffer
		for _, line := range strings.FieldsFunc(string(ctx.Body()), func(r rune) bool { return r == '\n' || r == '\r' }) {
			if len(line) > transmitter.MaxLineLength {
				debug.ErrorLog.Printf("transmit line longer than %d characters dropped", transmitter.MaxLineLength)
				continue
			}
			app.transmitter.ProcessLine(line, &out)
		}

		ctx.Status(http.StatusOK)
		return ctx.SendString(out.String())
	}
}

package app

import (
	"sync"
	"time"

	"rf433ook/pkg/ook"

	"github.com/womat/debug"
)

// history keeps the most recent decode records.
type history struct {
	sync.RWMutex
	size    int
	records []ook.Record
}

func newHistory(size int) *history {
	if size < 1 {
		size = 1
	}
	return &history{size: size}
}

func (h *history) add(r ook.Record) {
	h.Lock()
	defer h.Unlock()

	if len(h.records) == h.size {
		copy(h.records, h.records[1:])
		h.records = h.records[:h.size-1]
	}
	h.records = append(h.records, r)
}

// get returns a copy of the records, oldest first.
func (h *history) get() []ook.Record {
	h.RLock()
	defer h.RUnlock()

	return append([]ook.Record(nil), h.records...)
}

// receive polls the decoder for complete codes in an endless loop.
// Each code is finalised, logged, kept for the data web service and sent to the mqtt broker.
func (app *App) receive() {
	for range time.Tick(app.config.Receiver.Poll) {
		for {
			code, ok := app.decoder.Pop()
			if !ok {
				break
			}
			app.handleCode(&code)
		}
	}
}

func (app *App) handleCode(code *ook.Code) {
	if !code.Finalise() {
		debug.DebugLog.Printf("can't finalise code %v", code.String())
		return
	}

	r := code.Record()
	debug.InfoLog.Printf("receive: %v", r)
	app.records.add(r)

	if err := app.mqtt.Publish(app.config.MQTT.Topic, false, r); err != nil {
		debug.ErrorLog.Printf("sendMQTT: %v", err)
	}
}

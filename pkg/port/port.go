// Package port holds the definition of a physical port
package port

import "time"

// EventType indicates the type of change to the line active state.
//
// Note that for active low lines a low line level results in a high active
// state.
type EventType int

const (
	_ EventType = iota
	// RisingEdge indicates an inactive to active event (low to high).
	RisingEdge
	// FallingEdge indicates an active to inactive event (high to low).
	FallingEdge
)

// Event is an edge on an input line.
type Event struct {
	// Timestamp indicates the time the event was detected.
	Timestamp time.Duration
	// The type of state change event this structure represents.
	Type EventType
}

// Micros returns the timestamp in microseconds, wrapped to 32 bits.
func (e Event) Micros() uint32 {
	return uint32(e.Timestamp / time.Microsecond)
}

// Handler is called once per edge, in the order of the edges.
type Handler func(Event)

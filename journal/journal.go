// Package journal keeps a short, in-memory history of what happened at the
// lab door.
package journal

import (
	"io"
	"time"
)

// Kind is what happened.
type Kind string

const (
	// Entered is an admitted entry.
	Entered Kind = "entered"
	// Rejected is an entry attempt while the lab was full.
	Rejected Kind = "rejected"
	// Exited is an exit.
	Exited Kind = "exited"
	// Reset is a press of the reset button.
	Reset Kind = "reset"
)

// Event is one journal record. Occupancy is the value after the event.
type Event struct {
	Seq       uint64    `json:"seq"`
	Kind      Kind      `json:"kind"`
	Occupancy int       `json:"occupancy"`
	At        time.Time `json:"at"`
}

// Journal records events and lists them newest first.
type Journal interface {
	Record(kind Kind, occupancy int) error

	// List returns at most limit events, newest first. A limit <= 0 lists
	// everything still retained.
	List(limit int) ([]Event, error)

	io.Closer
}

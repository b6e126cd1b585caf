package occupancy

import "fmt"

// Status is the state of the space, derived from its occupancy.
type Status int

const (
	// Empty means nobody is inside.
	Empty Status = iota
	// Normal means there is more than one free spot left.
	Normal
	// NearFull means exactly one spot is left.
	NearFull
	// Full means the space is at capacity and entries are rejected.
	Full
)

// StatusOf maps an occupancy to its status. Values outside [0, Max] are
// clamped; the Counter never produces them.
func StatusOf(n int) Status {
	switch {
	case n <= 0:
		return Empty
	case n <= Max-2:
		return Normal
	case n == Max-1:
		return NearFull
	default:
		return Full
	}
}

// Color is the state of the three channels of an RGB indicator.
type Color struct {
	Red   bool `json:"red"`
	Green bool `json:"green"`
	Blue  bool `json:"blue"`
}

// Color returns the indicator color for the status: blue when empty, green
// while there is room, yellow (red and green) with one spot left, red when
// full.
func (s Status) Color() Color {
	switch s {
	case Empty:
		return Color{Blue: true}
	case Normal:
		return Color{Green: true}
	case NearFull:
		return Color{Red: true, Green: true}
	default:
		return Color{Red: true}
	}
}

// Label is the text shown on the display for the status.
func (s Status) Label() string {
	switch s {
	case Empty:
		return "EMPTY"
	case Normal:
		return "NORMAL"
	case NearFull:
		return "NEAR FULL"
	case Full:
		return "FULL"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) String() string {
	return s.Label()
}

// MarshalText encodes the status as its label.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

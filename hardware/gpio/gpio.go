package gpio

import "io"

// Level describes the binary state of a GPIO pin: either LOW or HIGH.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Pull selects the internal resistor of an input pin.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// HardwarePWM reports whether a BCM pin is wired to one of the Raspberry Pi
// PWM channels.
func HardwarePWM(pin int) bool {
	switch pin {
	case 12, 13, 18, 19:
		return true
	default:
		return false
	}
}

type GPIO interface {
	// Input configures a pin as an input with the given pull resistor.
	Input(pin int, pull Pull) error

	// Read returns the current level of a pin.
	Read(pin int) (Level, error)

	// Write sets a pin to LOW or HIGH
	Write(pin int, level Level) error

	// PWM sets the frequency and duty cycle (0 - 1) for a given pin.
	PWM(pin int, frequency int, duty float64) error

	// WatchFalling calls fn on every HIGH to LOW transition of an input pin.
	// fn runs on a backend goroutine and must not block.
	WatchFalling(pin int, fn func()) error

	io.Closer
}

package hardware

import (
	"fmt"
	"io"
)

// Button identifies one of the lab's push buttons.
type Button int

const (
	// EntryButton is pressed when somebody walks in.
	EntryButton Button = iota
	// ExitButton is pressed when somebody walks out.
	ExitButton
	// ResetButton empties the lab.
	ResetButton
)

func (b Button) String() string {
	switch b {
	case EntryButton:
		return "entry"
	case ExitButton:
		return "exit"
	case ResetButton:
		return "reset"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// ParseButton is the inverse of Button.String.
func ParseButton(s string) (Button, error) {
	for _, b := range []Button{EntryButton, ExitButton, ResetButton} {
		if b.String() == s {
			return b, nil
		}
	}

	return 0, fmt.Errorf("unknown button %q", s)
}

// Buttons describes hardware with the three lab buttons.
type Buttons interface {
	// Pressed reports whether the button is currently held down.
	Pressed(b Button) (bool, error)

	// OnReset registers fn to be called on every press edge of the reset
	// button. fn is called from the edge detection context and must not block.
	OnReset(fn func()) error
}

// Indicator describes hardware with an RGB status LED.
type Indicator interface {
	SetColor(red, green, blue bool) error
}

// ToneGenerator describes hardware with a PWM driven buzzer.
type ToneGenerator interface {
	// SetToneLevel sets the buzzer duty cycle (from silence - 0, to 1). Any
	// nonzero value sounds the same fixed frequency.
	SetToneLevel(duty float64) error
}

// TextDisplay describes a display that text can be drawn to. Drawing only
// touches an off-screen buffer until Flush.
type TextDisplay interface {
	ClearRegion(x, y, w, h int)
	DrawText(x, y int, s string)
	Flush() error
}

// Board is everything the lab monitor needs except the display, which is a
// separate device on its own bus.
type Board interface {
	Name() string

	Buttons
	Indicator
	ToneGenerator

	io.Closer
}

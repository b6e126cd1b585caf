package hardware

import (
	"errors"
	"fmt"

	"github.com/gloworm-vision/labaccess/hardware/gpio"
)

// Pins maps the lab's inputs and outputs to BCM pin numbers.
type Pins struct {
	Entry  int `json:"entry"`
	Exit   int `json:"exit"`
	Reset  int `json:"reset"`
	Red    int `json:"red"`
	Green  int `json:"green"`
	Blue   int `json:"blue"`
	Buzzer int `json:"buzzer"`
}

// DefaultPins is the wiring of the reference lab board.
var DefaultPins = Pins{
	Entry:  5,
	Exit:   6,
	Reset:  22,
	Red:    13,
	Green:  11,
	Blue:   12,
	Buzzer: 18,
}

// Button returns the pin a button is wired to.
func (p Pins) Button(button Button) (int, error) {
	switch button {
	case EntryButton:
		return p.Entry, nil
	case ExitButton:
		return p.Exit, nil
	case ResetButton:
		return p.Reset, nil
	default:
		return 0, fmt.Errorf("button %v is not wired", button)
	}
}

// ErrPinConflict is returned for wiring that puts two functions on one pin.
var ErrPinConflict = errors.New("pin wired to more than one function")

// Validate checks that every function has a pin of its own.
func (p Pins) Validate() error {
	used := make(map[int]string)
	for _, f := range []struct {
		name string
		pin  int
	}{
		{"entry", p.Entry},
		{"exit", p.Exit},
		{"reset", p.Reset},
		{"red", p.Red},
		{"green", p.Green},
		{"blue", p.Blue},
		{"buzzer", p.Buzzer},
	} {
		if other, ok := used[f.pin]; ok {
			return fmt.Errorf("%s and %s both on pin %d: %w", other, f.name, f.pin, ErrPinConflict)
		}
		used[f.pin] = f.name
	}

	return nil
}

// DefaultBuzzerFrequency is the buzzer tone in Hz.
const DefaultBuzzerFrequency = 440

// LabBoard is the lab access board: three active-low push buttons with pull
// ups, a common cathode RGB LED and a passive buzzer on a PWM pin.
type LabBoard struct {
	gpio            gpio.GPIO
	pins            Pins
	buzzerFrequency int
}

var _ Board = &LabBoard{}

// NewLabBoard configures the pins of g for the lab board.
func NewLabBoard(g gpio.GPIO, pins Pins, buzzerFrequency int) (*LabBoard, error) {
	if buzzerFrequency <= 0 {
		buzzerFrequency = DefaultBuzzerFrequency
	}

	if err := pins.Validate(); err != nil {
		return nil, err
	}

	for _, pin := range []int{pins.Entry, pins.Exit, pins.Reset} {
		if err := g.Input(pin, gpio.PullUp); err != nil {
			return nil, fmt.Errorf("can't set up button on pin %d: %w", pin, err)
		}
	}

	for _, pin := range []int{pins.Red, pins.Green, pins.Blue} {
		if err := g.Write(pin, gpio.Low); err != nil {
			return nil, fmt.Errorf("can't set up LED on pin %d: %w", pin, err)
		}
	}

	if err := g.PWM(pins.Buzzer, buzzerFrequency, 0); err != nil {
		return nil, fmt.Errorf("can't set up buzzer on pin %d: %w", pins.Buzzer, err)
	}

	return &LabBoard{
		gpio:            g,
		pins:            pins,
		buzzerFrequency: buzzerFrequency,
	}, nil
}

func (b *LabBoard) Name() string {
	return "labboard"
}

// GPIO returns the underlying GPIO, for callers that need backend specific
// features such as driving a simulated button.
func (b *LabBoard) GPIO() gpio.GPIO {
	return b.gpio
}

// Pin returns the pin a button is wired to.
func (b *LabBoard) Pin(button Button) (int, error) {
	pin, err := b.pins.Button(button)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return pin, nil
}

func (b *LabBoard) Pressed(button Button) (bool, error) {
	pin, err := b.Pin(button)
	if err != nil {
		return false, err
	}

	level, err := b.gpio.Read(pin)
	if err != nil {
		return false, fmt.Errorf("can't read %s button: %w", button, err)
	}

	return level == gpio.Low, nil
}

func (b *LabBoard) OnReset(fn func()) error {
	if err := b.gpio.WatchFalling(b.pins.Reset, fn); err != nil {
		return fmt.Errorf("can't watch reset button: %w", err)
	}

	return nil
}

func (b *LabBoard) SetColor(red, green, blue bool) error {
	if err := b.gpio.Write(b.pins.Red, gpio.Level(red)); err != nil {
		return fmt.Errorf("can't set red LED: %w", err)
	}

	if err := b.gpio.Write(b.pins.Green, gpio.Level(green)); err != nil {
		return fmt.Errorf("can't set green LED: %w", err)
	}

	if err := b.gpio.Write(b.pins.Blue, gpio.Level(blue)); err != nil {
		return fmt.Errorf("can't set blue LED: %w", err)
	}

	return nil
}

func (b *LabBoard) SetToneLevel(duty float64) error {
	if err := b.gpio.PWM(b.pins.Buzzer, b.buzzerFrequency, duty); err != nil {
		return fmt.Errorf("can't set buzzer level: %w", err)
	}

	return nil
}

func (b *LabBoard) Close() error {
	if err := b.SetColor(false, false, false); err != nil {
		return fmt.Errorf("unable to turn off LED: %w", err)
	}
	if err := b.SetToneLevel(0); err != nil {
		return fmt.Errorf("unable to silence buzzer: %w", err)
	}

	return b.gpio.Close()
}

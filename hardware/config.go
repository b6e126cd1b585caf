package hardware

import (
	"errors"
	"fmt"

	"github.com/gloworm-vision/labaccess/hardware/gpio"
)

// ErrUnknownBackend is returned by New when the config selects no GPIO backend.
var ErrUnknownBackend = errors.New("no gpio backend configured")

type PigpioConfig struct {
	Addr string `json:"addr"`
}

type PeriphConfig struct{}

type RpioConfig struct{}

type SimConfig struct{}

// DisplayConfig describes the OLED display, which is driven by the display
// package rather than the board.
type DisplayConfig struct {
	SSD1306 bool   `json:"ssd1306"`
	I2CBus  string `json:"i2cBus"`
}

// Config selects exactly one GPIO backend and describes the board wiring.
type Config struct {
	Pigpio *PigpioConfig `json:"pigpio,omitempty"`
	Periph *PeriphConfig `json:"periph,omitempty"`
	Rpio   *RpioConfig   `json:"rpio,omitempty"`
	Sim    *SimConfig    `json:"sim,omitempty"`

	Pins            Pins          `json:"pins"`
	BuzzerFrequency int           `json:"buzzerFrequency"`
	Display         DisplayConfig `json:"display"`
}

// DefaultConfig is a simulated board with the default wiring.
func DefaultConfig() Config {
	return Config{
		Sim:             &SimConfig{},
		Pins:            DefaultPins,
		BuzzerFrequency: DefaultBuzzerFrequency,
	}
}

// Backend names the selected GPIO backend.
func (c Config) Backend() string {
	switch {
	case c.Pigpio != nil:
		return "pigpio"
	case c.Periph != nil:
		return "periph"
	case c.Rpio != nil:
		return "rpio"
	case c.Sim != nil:
		return "sim"
	default:
		return ""
	}
}

// WithBackend returns a copy of c that uses the named backend instead of the
// configured one. addr is only used by pigpio.
func (c Config) WithBackend(name, addr string) (Config, error) {
	c.Pigpio, c.Periph, c.Rpio, c.Sim = nil, nil, nil, nil

	switch name {
	case "pigpio":
		c.Pigpio = &PigpioConfig{Addr: addr}
	case "periph":
		c.Periph = &PeriphConfig{}
	case "rpio":
		c.Rpio = &RpioConfig{}
	case "sim":
		c.Sim = &SimConfig{}
	default:
		return c, fmt.Errorf("unknown gpio backend %q: %w", name, ErrUnknownBackend)
	}

	return c, nil
}

// New opens the configured GPIO backend and sets up the lab board on it.
func New(config Config) (*LabBoard, error) {
	var g gpio.GPIO
	var err error

	switch {
	case config.Pigpio != nil:
		g, err = gpio.DialPigpio(config.Pigpio.Addr)
	case config.Periph != nil:
		g, err = gpio.OpenPeriph()
	case config.Rpio != nil:
		g, err = gpio.OpenRpio()
	case config.Sim != nil:
		g = gpio.NewSim()
	default:
		return nil, ErrUnknownBackend
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s gpio: %w", config.Backend(), err)
	}

	board, err := NewLabBoard(g, config.Pins, config.BuzzerFrequency)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("unable to set up lab board: %w", err)
	}

	return board, nil
}

package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// SSD1306 shows frames on a 128x64 SSD1306 OLED over I2C.
type SSD1306 struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

var _ Sink = &SSD1306{}

// OpenSSD1306 opens the named I2C bus ("" for the first one) and initialises
// the display on it.
func OpenSSD1306(busName string) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialise periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("unable to open i2c bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W, opts.H = Width, Height

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("unable to initialise ssd1306: %w", err)
	}

	return &SSD1306{bus: bus, dev: dev}, nil
}

func (s *SSD1306) Show(img image.Image) error {
	return s.dev.Draw(img.Bounds(), img, image.Point{})
}

func (s *SSD1306) Close() error {
	if err := s.dev.Halt(); err != nil {
		return fmt.Errorf("unable to halt ssd1306: %w", err)
	}

	return s.bus.Close()
}

package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/hardware/gpio"
)

var errNoSim = errors.New("buttons can only be pressed on the sim backend")

// pressManager synchronizes simulated button presses, so a click (press, hold,
// release) is never cut short by another request on the same board.
type pressManager struct {
	sim  *gpio.Sim
	pins hardware.Pins
	hold time.Duration

	mu sync.Mutex
}

func (p *pressManager) set(b hardware.Button, level gpio.Level) error {
	if p.sim == nil {
		return errNoSim
	}

	pin, err := p.pins.Button(b)
	if err != nil {
		return fmt.Errorf("unable to find %s button: %w", b, err)
	}

	p.sim.Set(pin, level)
	return nil
}

func (p *pressManager) Press(b hardware.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.set(b, gpio.Low)
}

func (p *pressManager) Release(b hardware.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.set(b, gpio.High)
}

// Click holds the button long enough to pass debouncing, then releases it.
func (p *pressManager) Click(b hardware.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.set(b, gpio.Low); err != nil {
		return err
	}
	time.Sleep(p.hold)

	return p.set(b, gpio.High)
}

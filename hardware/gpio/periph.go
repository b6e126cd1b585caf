package gpio

import (
	"fmt"
	"sync"
	"time"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Periph drives GPIO through the periph.io host drivers. Pins are addressed
// by their BCM numbers.
type Periph struct {
	mu    sync.Mutex
	pins  map[int]pgpio.PinIO
	pulls map[int]pgpio.Pull

	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

var _ GPIO = &Periph{}

// OpenPeriph initialises the periph host drivers.
func OpenPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialise periph host: %w", err)
	}

	return &Periph{
		pins:  make(map[int]pgpio.PinIO),
		pulls: make(map[int]pgpio.Pull),
		done:  make(chan struct{}),
	}, nil
}

func (p *Periph) pin(n int) (pgpio.PinIO, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pin, ok := p.pins[n]; ok {
		return pin, nil
	}

	pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if pin == nil {
		return nil, fmt.Errorf("no such pin GPIO%d", n)
	}

	p.pins[n] = pin
	return pin, nil
}

func (p *Periph) Input(n int, pull Pull) error {
	pin, err := p.pin(n)
	if err != nil {
		return err
	}

	var pp pgpio.Pull
	switch pull {
	case PullUp:
		pp = pgpio.PullUp
	case PullDown:
		pp = pgpio.PullDown
	default:
		pp = pgpio.Float
	}

	p.mu.Lock()
	p.pulls[n] = pp
	p.mu.Unlock()

	if err := pin.In(pp, pgpio.NoEdge); err != nil {
		return fmt.Errorf("unable to set %s to input: %w", pin, err)
	}

	return nil
}

func (p *Periph) Read(n int) (Level, error) {
	pin, err := p.pin(n)
	if err != nil {
		return Low, err
	}

	return Level(pin.Read() == pgpio.High), nil
}

func (p *Periph) Write(n int, level Level) error {
	pin, err := p.pin(n)
	if err != nil {
		return err
	}

	if err := pin.Out(pgpio.Level(level)); err != nil {
		return fmt.Errorf("unable to write %s: %w", pin, err)
	}

	return nil
}

func (p *Periph) PWM(n int, frequency int, duty float64) error {
	pin, err := p.pin(n)
	if err != nil {
		return err
	}

	if duty <= 0 {
		return p.Write(n, Low)
	}

	d := pgpio.Duty(duty * float64(pgpio.DutyMax))
	if err := pin.PWM(d, physic.Frequency(frequency)*physic.Hertz); err != nil {
		return fmt.Errorf("unable to set PWM on %s: %w", pin, err)
	}

	return nil
}

// WatchFalling enables falling edge detection on the pin and waits for edges
// on a dedicated goroutine.
func (p *Periph) WatchFalling(n int, fn func()) error {
	pin, err := p.pin(n)
	if err != nil {
		return err
	}

	p.mu.Lock()
	pull, ok := p.pulls[n]
	p.mu.Unlock()
	if !ok {
		pull = pgpio.PullNoChange
	}

	if err := pin.In(pull, pgpio.FallingEdge); err != nil {
		return fmt.Errorf("unable to enable edge detection on %s: %w", pin, err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		for {
			select {
			case <-p.done:
				return
			default:
			}

			if pin.WaitForEdge(100 * time.Millisecond) {
				fn()
			}
		}
	}()

	return nil
}

func (p *Periph) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("periph gpio is already closed")
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	for n, pin := range p.pins {
		if err := pin.Halt(); err != nil {
			return fmt.Errorf("unable to halt GPIO%d: %w", n, err)
		}
	}

	return nil
}

package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// pwmCycle is the number of clock ticks in one PWM period.
const pwmCycle = 32

// Rpio drives GPIO by memory mapping /dev/gpiomem with go-rpio. Only one Rpio
// may be open per process since go-rpio keeps global state.
type Rpio struct {
	mu sync.Mutex

	// PollInterval is how often watched pins are checked for latched edges.
	PollInterval time.Duration

	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

var _ GPIO = &Rpio{}

// OpenRpio maps the GPIO registers.
func OpenRpio() (*Rpio, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("unable to open gpio memory: %w", err)
	}

	return &Rpio{PollInterval: 5 * time.Millisecond, done: make(chan struct{})}, nil
}

func (r *Rpio) Input(pin int, pull Pull) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := rpio.Pin(pin)
	p.Input()

	switch pull {
	case PullUp:
		p.PullUp()
	case PullDown:
		p.PullDown()
	default:
		p.PullOff()
	}

	return nil
}

func (r *Rpio) Read(pin int) (Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Level(rpio.Pin(pin).Read() == rpio.High), nil
}

func (r *Rpio) Write(pin int, level Level) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := rpio.Pin(pin)
	p.Output()
	if level {
		p.High()
	} else {
		p.Low()
	}

	return nil
}

// PWM switches the pin to hardware PWM mode. Only the PWM capable pins (12,
// 13, 18, 19) can produce a waveform; other pins are rejected.
func (r *Rpio) PWM(pin int, frequency int, duty float64) error {
	if !HardwarePWM(pin) {
		return fmt.Errorf("pin %d has no hardware PWM", pin)
	}
	if duty <= 0 {
		return r.Write(pin, Low)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	p.Freq(frequency * pwmCycle)
	p.DutyCycle(uint32(duty*pwmCycle), pwmCycle)

	return nil
}

// WatchFalling arms the pin's falling edge detector and polls the latched
// event every PollInterval.
func (r *Rpio) WatchFalling(pin int, fn func()) error {
	r.mu.Lock()
	p := rpio.Pin(pin)
	p.Detect(rpio.FallEdge)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.done:
				return
			case <-ticker.C:
				r.mu.Lock()
				detected := p.EdgeDetected()
				r.mu.Unlock()

				if detected {
					fn()
				}
			}
		}
	}()

	return nil
}

func (r *Rpio) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return fmt.Errorf("gpio memory is already unmapped")
	}
	r.closed = true
	close(r.done)
	r.mu.Unlock()

	r.wg.Wait()

	if err := rpio.Close(); err != nil {
		return fmt.Errorf("unable to unmap gpio memory: %w", err)
	}

	return nil
}

package gpio

import (
	"fmt"
	"sync"
)

// Sim is an in-memory GPIO. Inputs are driven with Set, outputs and PWM
// settings can be inspected. It lets the lab monitor run on a machine with no
// GPIO at all.
type Sim struct {
	mu       sync.Mutex
	levels   map[int]Level
	pulls    map[int]Pull
	duty     map[int]float64
	watchers map[int][]func()
	closed   bool
}

var _ GPIO = &Sim{}

func NewSim() *Sim {
	return &Sim{
		levels:   make(map[int]Level),
		pulls:    make(map[int]Pull),
		duty:     make(map[int]float64),
		watchers: make(map[int][]func()),
	}
}

// Input records the pull. A pulled-up pin that was never driven reads HIGH.
func (s *Sim) Input(pin int, pull Pull) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sim gpio is closed")
	}

	s.pulls[pin] = pull
	if _, ok := s.levels[pin]; !ok && pull == PullUp {
		s.levels[pin] = High
	}

	return nil
}

func (s *Sim) Read(pin int) (Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Low, fmt.Errorf("sim gpio is closed")
	}

	return s.levels[pin], nil
}

func (s *Sim) Write(pin int, level Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sim gpio is closed")
	}

	s.levels[pin] = level
	delete(s.duty, pin)
	return nil
}

func (s *Sim) PWM(pin int, frequency int, duty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sim gpio is closed")
	}
	if duty < 0 || duty > 1 {
		return fmt.Errorf("duty cycle %v out of range", duty)
	}

	s.duty[pin] = duty
	return nil
}

func (s *Sim) WatchFalling(pin int, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sim gpio is closed")
	}

	s.watchers[pin] = append(s.watchers[pin], fn)
	return nil
}

// Set drives an input pin from outside, as a button or a wire would. Falling
// edge watchers run synchronously on the caller's goroutine, after the new
// level is visible to Read.
func (s *Sim) Set(pin int, level Level) {
	s.mu.Lock()
	prev, ok := s.levels[pin]
	if !ok {
		prev = s.pulls[pin] == PullUp
	}
	s.levels[pin] = level
	var fire []func()
	if prev == High && level == Low {
		fire = append(fire, s.watchers[pin]...)
	}
	s.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Level returns the last level written to or driven on a pin.
func (s *Sim) Level(pin int) Level {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.levels[pin]
}

// Duty returns the PWM duty cycle of a pin, 0 when PWM is off.
func (s *Sim) Duty(pin int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.duty[pin]
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sim gpio is already closed")
	}

	s.closed = true
	s.watchers = make(map[int][]func())
	return nil
}

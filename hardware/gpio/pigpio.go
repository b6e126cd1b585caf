package gpio

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"
)

// Pigpio is used for controlling GPIO over the pigpio socket interface
type Pigpio struct {
	conn net.Conn
	mu   sync.Mutex

	// PollInterval is how often watched pins are sampled for edges.
	PollInterval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// compile-time check for whether Pigpio satisfies the GPIO interface
var _ GPIO = &Pigpio{}

// DialPigpio dials into the pigpio socket interface (normally running on port 8888)
func DialPigpio(addr string) (*Pigpio, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("couldn't dial into pigpio socket: %w", err)
	}

	return &Pigpio{
		conn:         conn,
		PollInterval: 2 * time.Millisecond,
		done:         make(chan struct{}),
	}, nil
}

// Close stops all pin watchers and closes the underlying pigpio socket
// interface connection
func (p *Pigpio) Close() error {
	p.mu.Lock()
	if p.conn == nil {
		p.mu.Unlock()
		return fmt.Errorf("connection is already closed")
	}
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.conn.Close()
	p.conn = nil
	return err
}

// Input sets a pin to input mode and configures its pull resistor.
func (p *Pigpio) Input(pin int, pull Pull) error {
	if _, err := p.command(modes, uint32(pin), piInput); err != nil {
		return fmt.Errorf("unable to set pin %d to input: %w", pin, err)
	}

	var pud uint32
	switch pull {
	case PullUp:
		pud = pudUp
	case PullDown:
		pud = pudDown
	default:
		pud = pudOff
	}

	if _, err := p.command(pullUpDown, uint32(pin), pud); err != nil {
		return fmt.Errorf("unable to set pull on pin %d: %w", pin, err)
	}

	return nil
}

// Read returns the level of a GPIO pin.
func (p *Pigpio) Read(pin int) (Level, error) {
	res, err := p.command(read, uint32(pin), 0)
	if err != nil {
		return Low, fmt.Errorf("unable to read pin %d: %w", pin, err)
	}

	return Level(res != 0), nil
}

// Write sets a GPIO pin to LOW or HIGH.
func (p *Pigpio) Write(pin int, level Level) error {
	var rawLevel uint32
	if level {
		rawLevel = 1
	}

	if _, err := p.command(write, uint32(pin), rawLevel); err != nil {
		return fmt.Errorf("unable to write pin %d: %w", pin, err)
	}

	return nil
}

// PWM sets frequency and duty cycle on the given pin. Hardware PWM is used on
// the PWM capable pins, pigpio's DMA timed software PWM everywhere else.
func (p *Pigpio) PWM(pin int, frequency int, duty float64) error {
	if HardwarePWM(pin) {
		return p.hp(uint32(pin), uint32(frequency), uint32(float64(1000000)*duty))
	}

	if _, err := p.command(setPWMFrequency, uint32(pin), uint32(frequency)); err != nil {
		return fmt.Errorf("unable to set PWM frequency on pin %d: %w", pin, err)
	}

	if _, err := p.command(setPWMDutyCycle, uint32(pin), uint32(duty*pwmRange)); err != nil {
		return fmt.Errorf("unable to set PWM duty cycle on pin %d: %w", pin, err)
	}

	return nil
}

// WatchFalling samples the pin every PollInterval and calls fn when it goes
// from HIGH to LOW. The socket interface has no push notifications without a
// separate notification pipe, so edges are found by polling.
func (p *Pigpio) WatchFalling(pin int, fn func()) error {
	last, err := p.Read(pin)
	if err != nil {
		return fmt.Errorf("unable to read initial level: %w", err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-p.done:
				return
			case <-ticker.C:
				level, err := p.Read(pin)
				if err != nil {
					continue
				}
				if last == High && level == Low {
					fn()
				}
				last = level
			}
		}
	}()

	return nil
}

type cmd struct {
	Cmd uint32
	P1  uint32
	P2  uint32
	P3  uint32
}

const (
	modes      uint32 = 0
	pullUpDown uint32 = 2
	read       uint32 = 3
	write      uint32 = 4
	hp         uint32 = 86

	setPWMDutyCycle uint32 = 5
	setPWMFrequency uint32 = 7

	// pwmRange is pigpio's default software PWM range.
	pwmRange = 255

	piInput uint32 = 0

	pudOff  uint32 = 0
	pudDown uint32 = 1
	pudUp   uint32 = 2
)

// command sends a plain (extension-less) command and returns the result
// field of the response. pigpio reports failures as negative results.
func (p *Pigpio) command(c, p1, p2 uint32) (int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return 0, fmt.Errorf("not connected to pigpio socket interface")
	}

	request := cmd{
		Cmd: c,
		P1:  p1,
		P2:  p2,
	}

	if err := binary.Write(p.conn, binary.LittleEndian, request); err != nil {
		return 0, fmt.Errorf("unable to write request to socket: %w", err)
	}

	var response cmd
	if err := binary.Read(p.conn, binary.LittleEndian, &response); err != nil {
		return 0, fmt.Errorf("unable to read response from socket: %w", err)
	}

	res := int32(response.P3)
	if res < 0 {
		return res, fmt.Errorf("pigpio command %d failed with code %d", c, res)
	}

	return res, nil
}

// hp sets frequency (1-125,000,000) and duty cycle (1-1000000) for hardware PWM on the specified pin.
func (p *Pigpio) hp(pin, frequency, duty uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return fmt.Errorf("not connected to pigpio socket interface")
	}

	request := struct {
		Cmd uint32
		P1  uint32
		P2  uint32
		P3  uint32
		Ext uint32
	}{
		Cmd: hp,
		P1:  pin,
		P2:  frequency,
		P3:  4,
		Ext: duty,
	}

	if err := binary.Write(p.conn, binary.LittleEndian, request); err != nil {
		return fmt.Errorf("unable to write request to socket: %w", err)
	}

	var response cmd
	if err := binary.Read(p.conn, binary.LittleEndian, &response); err != nil {
		return fmt.Errorf("unable to read response from socket: %w", err)
	}

	if res := int32(response.P3); res < 0 {
		return fmt.Errorf("pigpio hardware PWM failed with code %d", res)
	}

	return nil
}

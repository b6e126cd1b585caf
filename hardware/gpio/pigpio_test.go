package gpio

import (
	"encoding/binary"
	"net"
	"sync"
	"testing"
	"time"
)

// fakePigpiod answers pigpio socket commands from an in-memory pin table.
type fakePigpiod struct {
	ln net.Listener

	mu     sync.Mutex
	levels map[uint32]uint32
	duty   map[uint32]uint32
	modes  map[uint32]uint32
	pulls  map[uint32]uint32

	// software PWM settings
	freq   map[uint32]uint32
	dutySW map[uint32]uint32
}

func newFakePigpiod(t *testing.T) *fakePigpiod {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	f := &fakePigpiod{
		ln:     ln,
		levels: make(map[uint32]uint32),
		duty:   make(map[uint32]uint32),
		modes:  make(map[uint32]uint32),
		pulls:  make(map[uint32]uint32),
		freq:   make(map[uint32]uint32),
		dutySW: make(map[uint32]uint32),
	}
	go f.serve()
	t.Cleanup(func() { ln.Close() })

	return f
}

func (f *fakePigpiod) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var req cmd
		if err := binary.Read(conn, binary.LittleEndian, &req); err != nil {
			return
		}

		var ext uint32
		if req.Cmd == hp {
			if err := binary.Read(conn, binary.LittleEndian, &ext); err != nil {
				return
			}
		}

		f.mu.Lock()
		res := cmd{Cmd: req.Cmd, P1: req.P1, P2: req.P2}
		switch req.Cmd {
		case modes:
			f.modes[req.P1] = req.P2
		case pullUpDown:
			f.pulls[req.P1] = req.P2
			if req.P2 == pudUp {
				f.levels[req.P1] = 1
			}
		case read:
			res.P3 = f.levels[req.P1]
		case write:
			f.levels[req.P1] = req.P2
		case hp:
			if !HardwarePWM(int(req.P1)) {
				notHPWM := int32(-95)
				res.P3 = uint32(notHPWM)
				break
			}
			f.duty[req.P1] = ext
		case setPWMFrequency:
			f.freq[req.P1] = req.P2
		case setPWMDutyCycle:
			f.dutySW[req.P1] = req.P2
		default:
			neg := int32(-1)
			res.P3 = uint32(neg)
		}
		f.mu.Unlock()

		if err := binary.Write(conn, binary.LittleEndian, res); err != nil {
			return
		}
	}
}

func (f *fakePigpiod) set(pin, level uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels[pin] = level
}

func TestPigpioReadWrite(t *testing.T) {
	f := newFakePigpiod(t)

	p, err := DialPigpio(f.ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.Input(5, PullUp); err != nil {
		t.Fatal(err)
	}
	f.mu.Lock()
	mode, pull := f.modes[5], f.pulls[5]
	f.mu.Unlock()
	if mode != piInput || pull != pudUp {
		t.Fatalf("pin 5 mode %d pull %d", mode, pull)
	}

	level, err := p.Read(5)
	if err != nil {
		t.Fatal(err)
	}
	if level != High {
		t.Fatalf("read %v, want HIGH", level)
	}

	if err := p.Write(13, High); err != nil {
		t.Fatal(err)
	}
	if level, _ := p.Read(13); level != High {
		t.Fatalf("read back %v, want HIGH", level)
	}

	if err := p.PWM(18, 440, 0.3); err != nil {
		t.Fatal(err)
	}
	f.mu.Lock()
	duty := f.duty[18]
	f.mu.Unlock()
	if duty != 300000 {
		t.Fatalf("duty %d, want 300000", duty)
	}
}

func TestPigpioSoftwarePWM(t *testing.T) {
	f := newFakePigpiod(t)

	p, err := DialPigpio(f.ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.PWM(21, 440, 0.3); err != nil {
		t.Fatalf("PWM on a pin without hardware PWM: %s", err)
	}

	f.mu.Lock()
	freq, duty, hwDuty, hasHW := f.freq[21], f.dutySW[21], f.duty[21], len(f.duty) > 0
	f.mu.Unlock()

	if freq != 440 || duty != 76 {
		t.Fatalf("software PWM %d Hz duty %d, want 440 Hz duty 76", freq, duty)
	}
	if hasHW {
		t.Fatalf("hardware PWM used on pin 21 (duty %d)", hwDuty)
	}
}

func TestPigpioWatchFalling(t *testing.T) {
	f := newFakePigpiod(t)

	p, err := DialPigpio(f.ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.Input(22, PullUp); err != nil {
		t.Fatal(err)
	}

	edges := make(chan struct{}, 4)
	if err := p.WatchFalling(22, func() { edges <- struct{}{} }); err != nil {
		t.Fatal(err)
	}

	f.set(22, 0)

	select {
	case <-edges:
	case <-time.After(time.Second):
		t.Fatal("falling edge was not reported")
	}
}

func TestPigpioClosed(t *testing.T) {
	f := newFakePigpiod(t)

	p, err := DialPigpio(f.ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	if err := p.Write(1, High); err == nil {
		t.Fatal("expected write on closed connection to fail")
	}
}

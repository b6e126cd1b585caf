package gpio

import "testing"

func TestSimPullUpReadsHigh(t *testing.T) {
	s := NewSim()
	if err := s.Input(5, PullUp); err != nil {
		t.Fatal(err)
	}

	level, err := s.Read(5)
	if err != nil {
		t.Fatal(err)
	}
	if level != High {
		t.Fatalf("pulled up pin read %v, want HIGH", level)
	}
}

func TestSimFallingEdge(t *testing.T) {
	s := NewSim()
	if err := s.Input(22, PullUp); err != nil {
		t.Fatal(err)
	}

	var edges int
	if err := s.WatchFalling(22, func() { edges++ }); err != nil {
		t.Fatal(err)
	}

	s.Set(22, Low)
	s.Set(22, Low)
	s.Set(22, High)
	s.Set(22, Low)

	if edges != 2 {
		t.Fatalf("got %d falling edges, want 2", edges)
	}
}

func TestSimLevelVisibleToWatcher(t *testing.T) {
	s := NewSim()
	_ = s.Input(22, PullUp)

	var seen Level = High
	_ = s.WatchFalling(22, func() { seen, _ = s.Read(22) })

	s.Set(22, Low)

	if seen != Low {
		t.Fatalf("watcher read %v, want LOW", seen)
	}
}

func TestSimPWM(t *testing.T) {
	s := NewSim()

	if err := s.PWM(21, 440, 0.3); err != nil {
		t.Fatal(err)
	}
	if s.Duty(21) != 0.3 {
		t.Fatalf("duty %v, want 0.3", s.Duty(21))
	}

	if err := s.PWM(21, 440, 1.5); err == nil {
		t.Fatal("expected out of range duty to fail")
	}

	_ = s.Write(21, Low)
	if s.Duty(21) != 0 {
		t.Fatalf("duty after write %v, want 0", s.Duty(21))
	}
}

func TestSimClosed(t *testing.T) {
	s := NewSim()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Read(1); err == nil {
		t.Fatal("expected read on closed sim to fail")
	}
	if err := s.Close(); err == nil {
		t.Fatal("expected second close to fail")
	}
}

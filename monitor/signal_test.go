package monitor

import (
	"testing"
	"time"
)

func TestResetSignalAbsorbsRepeatedRaises(t *testing.T) {
	s := NewResetSignal()

	for i := 0; i < 3; i++ {
		s.Raise()
	}
	if !s.Pending() {
		t.Fatal("raise not pending")
	}

	select {
	case <-s.C():
	case <-time.After(time.Second):
		t.Fatal("pending raise was not delivered")
	}

	if s.Pending() {
		t.Fatal("repeated raises queued more than one reset")
	}

	select {
	case <-s.C():
		t.Fatal("second reset delivered")
	default:
	}
}

func TestResetSignalWakesWaiter(t *testing.T) {
	s := NewResetSignal()
	woke := make(chan struct{})

	go func() {
		<-s.C()
		close(woke)
	}()

	s.Raise()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}

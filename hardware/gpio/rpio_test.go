package gpio

import "testing"

func TestRpioCloseTwice(t *testing.T) {
	r := &Rpio{done: make(chan struct{})}

	// Nothing is mapped, so the first close may fail to unmap; it must not
	// leave the second one to close done again.
	_ = r.Close()

	if err := r.Close(); err == nil {
		t.Fatal("expected an error closing twice")
	}
}

func TestRpioPWMNeedsHardwarePin(t *testing.T) {
	r := &Rpio{done: make(chan struct{})}

	if err := r.PWM(21, 2000, 0.5); err == nil {
		t.Fatal("expected an error for PWM on a pin without hardware PWM")
	}
}

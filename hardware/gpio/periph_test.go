package gpio

import (
	"testing"

	pgpio "periph.io/x/conn/v3/gpio"
)

func TestPeriphCloseTwice(t *testing.T) {
	p := &Periph{
		pins:  make(map[int]pgpio.PinIO),
		pulls: make(map[int]pgpio.Pull),
		done:  make(chan struct{}),
	}

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err == nil {
		t.Fatal("expected an error closing twice")
	}
}

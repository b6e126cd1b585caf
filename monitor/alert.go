package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/kapetan-io/tackle/clock"
)

// DefaultAlertLevel is the buzzer duty cycle of every alert.
const DefaultAlertLevel = 0.3

// Alert plays the two buzzer patterns of the lab: a single beep when an entry
// is rejected and a double chime on reset. Patterns never overlap on the
// buzzer.
type Alert struct {
	Tone  hardware.ToneGenerator
	Level float64

	BeepFor  time.Duration
	ChimeOn  time.Duration
	ChimeOff time.Duration

	mu sync.Mutex
}

// NewAlert returns an alert on tone with the default level and timing.
func NewAlert(tone hardware.ToneGenerator) *Alert {
	return &Alert{
		Tone:     tone,
		Level:    DefaultAlertLevel,
		BeepFor:  DefaultTiming.Beep,
		ChimeOn:  DefaultTiming.ChimeOn,
		ChimeOff: DefaultTiming.ChimeOff,
	}
}

func (a *Alert) burst(on, off time.Duration) error {
	if err := a.Tone.SetToneLevel(a.Level); err != nil {
		return fmt.Errorf("unable to start tone: %w", err)
	}
	clock.Sleep(on)

	if err := a.Tone.SetToneLevel(0); err != nil {
		return fmt.Errorf("unable to stop tone: %w", err)
	}
	clock.Sleep(off)

	return nil
}

// Beep sounds the capacity reached warning.
func (a *Alert) Beep() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.burst(a.BeepFor, 0)
}

// Chime sounds the reset confirmation: two short bursts.
func (a *Alert) Chime() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < 2; i++ {
		if err := a.burst(a.ChimeOn, a.ChimeOff); err != nil {
			return err
		}
	}

	return nil
}

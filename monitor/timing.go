package monitor

import "time"

// Timing holds the periods and delays of the monitor tasks.
type Timing struct {
	// Poll is the period of the entry and exit tasks.
	Poll time.Duration
	// Settle is how long a button must stay pressed to count.
	Settle time.Duration
	// Status is the period of the indicator task.
	Status time.Duration

	Beep     time.Duration
	ChimeOn  time.Duration
	ChimeOff time.Duration
}

var DefaultTiming = Timing{
	Poll:     50 * time.Millisecond,
	Settle:   50 * time.Millisecond,
	Status:   50 * time.Millisecond,
	Beep:     200 * time.Millisecond,
	ChimeOn:  100 * time.Millisecond,
	ChimeOff: 100 * time.Millisecond,
}

func (t Timing) withDefaults() Timing {
	if t.Poll <= 0 {
		t.Poll = DefaultTiming.Poll
	}
	if t.Settle <= 0 {
		t.Settle = DefaultTiming.Settle
	}
	if t.Status <= 0 {
		t.Status = DefaultTiming.Status
	}
	if t.Beep <= 0 {
		t.Beep = DefaultTiming.Beep
	}
	if t.ChimeOn <= 0 {
		t.ChimeOn = DefaultTiming.ChimeOn
	}
	if t.ChimeOff <= 0 {
		t.ChimeOff = DefaultTiming.ChimeOff
	}

	return t
}

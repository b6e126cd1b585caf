package monitor

// ResetSignal is a one-shot latch raised from edge detection context and
// consumed by a single waiting task. Raises that arrive while a request is
// already pending are absorbed.
type ResetSignal struct {
	c chan struct{}
}

func NewResetSignal() *ResetSignal {
	return &ResetSignal{c: make(chan struct{}, 1)}
}

// Raise marks a reset as pending. It never blocks or allocates, so it is safe
// to call from an edge handler.
func (s *ResetSignal) Raise() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}

// C returns the channel the consumer waits on. A receive consumes the pending
// request.
func (s *ResetSignal) C() <-chan struct{} {
	return s.c
}

// Pending reports whether a raise has not been consumed yet.
func (s *ResetSignal) Pending() bool {
	return len(s.c) > 0
}

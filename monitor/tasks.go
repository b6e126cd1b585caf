package monitor

import (
	"context"
	"time"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/journal"
	"github.com/gloworm-vision/labaccess/occupancy"
	"github.com/kapetan-io/tackle/clock"
	"github.com/sirupsen/logrus"
)

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-clock.After(d):
		return true
	}
}

// debouncer turns the level of an active low button into press events.
type debouncer struct {
	button hardware.Button
	held   bool
}

// press reports a new press: the button reads pressed, still reads pressed
// one settle delay later, and was seen released since the last press.
func (m *Monitor) press(ctx context.Context, d *debouncer, t Timing, log *logrus.Entry) bool {
	if !m.pressed(d.button, log) {
		d.held = false
		return false
	}
	if d.held {
		return false
	}

	if !sleep(ctx, t.Settle) || !m.pressed(d.button, log) {
		return false
	}

	d.held = true
	return true
}

// pressed treats a read error as released.
func (m *Monitor) pressed(b hardware.Button, log *logrus.Entry) bool {
	pressed, err := m.Board.Pressed(b)
	if err != nil {
		log.Warnf("unable to read %s button: %s", b, err)
		return false
	}

	return pressed
}

// runButton polls a button every t.Poll, calls act on each debounced press
// and redraws the display on every cycle.
func (m *Monitor) runButton(ctx context.Context, b hardware.Button, t Timing, log *logrus.Entry, act func()) {
	d := debouncer{button: b}

	for {
		if m.press(ctx, &d, t, log) {
			act()
		}

		if _, err := m.renderer.Refresh(&m.counter); err != nil {
			log.Warnf("unable to render: %s", err)
		}

		if !sleep(ctx, t.Poll) {
			return
		}
	}
}

func (m *Monitor) runEntry(ctx context.Context, t Timing, log *logrus.Entry) {
	m.runButton(ctx, hardware.EntryButton, t, log, func() {
		n, ok := m.counter.TryIncrement()
		if ok {
			log.WithField("occupancy", n).Info("entry admitted")
			m.record(journal.Entered, n, log)
			return
		}

		log.WithField("occupancy", n).Warn("lab is full, entry rejected")
		m.record(journal.Rejected, n, log)
		if err := m.alert.Beep(); err != nil {
			log.Warnf("unable to beep: %s", err)
		}
	})
}

func (m *Monitor) runExit(ctx context.Context, t Timing, log *logrus.Entry) {
	m.runButton(ctx, hardware.ExitButton, t, log, func() {
		n, ok := m.counter.TryDecrement()
		if !ok {
			log.Debug("exit while empty ignored")
			return
		}

		log.WithField("occupancy", n).Info("exit")
		m.record(journal.Exited, n, log)
	})
}

// runReset sleeps until the reset button fires, then chimes, empties the
// counter and draws the empty state.
func (m *Monitor) runReset(ctx context.Context, t Timing, log *logrus.Entry) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.reset.C():
		}

		if err := m.alert.Chime(); err != nil {
			log.Warnf("unable to chime: %s", err)
		}

		m.counter.Reset()
		log.Info("occupancy reset")
		m.record(journal.Reset, 0, log)

		if _, err := m.renderer.Render(0); err != nil {
			log.Warnf("unable to render: %s", err)
		}
	}
}

// runStatus projects the counter onto the RGB indicator every t.Status.
func (m *Monitor) runStatus(ctx context.Context, t Timing, log *logrus.Entry) {
	for {
		status := occupancy.StatusOf(m.counter.Read())
		color := status.Color()

		if err := m.Board.SetColor(color.Red, color.Green, color.Blue); err != nil {
			log.Warnf("unable to set indicator: %s", err)
		} else {
			m.indicator.Store(int32(status))
		}

		if !sleep(ctx, t.Status) {
			return
		}
	}
}

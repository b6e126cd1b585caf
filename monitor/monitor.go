// Package monitor runs the lab access control loop: the entry, exit, reset
// and status tasks sharing one occupancy counter and one display.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gloworm-vision/labaccess/hardware"
	"github.com/gloworm-vision/labaccess/journal"
	"github.com/gloworm-vision/labaccess/occupancy"
	"github.com/sirupsen/logrus"
)

// Recorder receives every occupancy event.
type Recorder interface {
	Record(kind journal.Kind, occupancy int) error
}

// ErrNotCreated is returned by Run on a monitor that didn't come from New.
var ErrNotCreated = errors.New("monitor must be created with New")

// Monitor tracks the occupancy of the lab. Create one with New; the exported
// fields may be changed before Run.
type Monitor struct {
	Board   hardware.Board
	Logger  *logrus.Logger
	Journal Recorder // optional
	Timing  Timing
	Title   string

	counter   occupancy.Counter
	reset     *ResetSignal
	renderer  *Renderer
	alert     *Alert
	indicator atomic.Int32
}

// New returns a monitor for board drawing on display, with default timing.
func New(board hardware.Board, display hardware.TextDisplay, logger *logrus.Logger) *Monitor {
	if logger == nil {
		logger = logrus.New()
	}

	return &Monitor{
		Board:    board,
		Logger:   logger,
		Timing:   DefaultTiming,
		reset:    NewResetSignal(),
		renderer: NewRenderer(display),
		alert:    NewAlert(board),
	}
}

// Snapshot is a consistent view of the monitor for observers.
type Snapshot struct {
	Occupancy    int              `json:"occupancy"`
	Capacity     int              `json:"capacity"`
	Status       occupancy.Status `json:"status"`
	Indicator    occupancy.Color  `json:"indicator"`
	Display      RenderState      `json:"display"`
	ResetPending bool             `json:"resetPending"`
}

func (m *Monitor) Snapshot() Snapshot {
	n := m.counter.Read()

	return Snapshot{
		Occupancy:    n,
		Capacity:     occupancy.Max,
		Status:       occupancy.StatusOf(n),
		Indicator:    occupancy.Status(m.indicator.Load()).Color(),
		Display:      m.renderer.Last(),
		ResetPending: m.reset.Pending(),
	}
}

// RequestReset has the same effect as pressing the reset button.
func (m *Monitor) RequestReset() {
	m.reset.Raise()
}

// Run starts the tasks and blocks until ctx is done. The tasks themselves
// never stop on hardware errors; those are logged and retried on the next
// cycle.
func (m *Monitor) Run(ctx context.Context) error {
	if m.reset == nil || m.renderer == nil || m.alert == nil || m.Board == nil {
		return ErrNotCreated
	}
	if m.Logger == nil {
		m.Logger = logrus.New()
	}

	timing := m.Timing.withDefaults()
	m.alert.BeepFor = timing.Beep
	m.alert.ChimeOn = timing.ChimeOn
	m.alert.ChimeOff = timing.ChimeOff

	if err := m.Board.OnReset(m.reset.Raise); err != nil {
		return fmt.Errorf("unable to register reset handler: %w", err)
	}

	if err := m.renderer.Layout(m.Title, m.counter.Read()); err != nil {
		m.Logger.Warnf("unable to draw layout: %s", err)
	}

	tasks := map[string]func(context.Context, Timing, *logrus.Entry){
		"entry":  m.runEntry,
		"exit":   m.runExit,
		"reset":  m.runReset,
		"status": m.runStatus,
	}

	var wg sync.WaitGroup
	for name, task := range tasks {
		wg.Add(1)
		go func(name string, task func(context.Context, Timing, *logrus.Entry)) {
			defer wg.Done()

			log := m.Logger.WithField("task", name)
			log.Debug("starting task")
			task(ctx, timing, log)
			log.Debug("task stopped")
		}(name, task)
	}

	m.Logger.WithField("board", m.Board.Name()).Info("monitoring lab occupancy")

	<-ctx.Done()
	wg.Wait()

	return nil
}

func (m *Monitor) record(kind journal.Kind, n int, log *logrus.Entry) {
	if m.Journal == nil {
		return
	}

	if err := m.Journal.Record(kind, n); err != nil {
		log.Warnf("unable to record %s event: %s", kind, err)
	}
}

package journal

import (
	"testing"
	"time"

	"github.com/kapetan-io/tackle/clock"
	"github.com/sirupsen/logrus"
)

func openTestBadger(t *testing.T) *Badger {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	j, err := OpenBadger(time.Hour, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })

	return j
}

func TestBadgerListNewestFirst(t *testing.T) {
	defer clock.Freeze(clock.Now()).UnFreeze()
	start := clock.Now()

	j := openTestBadger(t)

	records := []struct {
		kind      Kind
		occupancy int
	}{
		{Entered, 1},
		{Entered, 2},
		{Exited, 1},
		{Reset, 0},
	}
	for _, r := range records {
		if err := j.Record(r.kind, r.occupancy); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Second)
	}

	events, err := j.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != len(records) {
		t.Fatalf("got %d events, want %d", len(events), len(records))
	}

	for i, event := range events {
		want := records[len(records)-1-i]
		if event.Kind != want.kind || event.Occupancy != want.occupancy {
			t.Errorf("event %d: got %s/%d, want %s/%d", i, event.Kind, event.Occupancy, want.kind, want.occupancy)
		}
		if event.Seq != uint64(len(records)-i) {
			t.Errorf("event %d: seq %d", i, event.Seq)
		}
		if at := start.Add(time.Duration(len(records)-1-i) * time.Second); !event.At.Equal(at) {
			t.Errorf("event %d: at %v, want %v", i, event.At, at)
		}
	}
}

func TestBadgerListLimit(t *testing.T) {
	j := openTestBadger(t)

	for i := 1; i <= 300; i++ {
		if err := j.Record(Entered, i%12); err != nil {
			t.Fatal(err)
		}
	}

	events, err := j.List(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	if events[0].Seq != 300 || events[4].Seq != 296 {
		t.Fatalf("got seqs %d..%d, want 300..296", events[0].Seq, events[4].Seq)
	}
}

func TestBadgerEmpty(t *testing.T) {
	j := openTestBadger(t)

	events, err := j.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events from an empty journal", len(events))
	}
}

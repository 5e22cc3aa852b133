package drivers

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWallClockDeliversWallClockSamples(t *testing.T) {
	clock := NewWallClockWithPeriod(10 * time.Millisecond)
	defer clock.Stop()

	ticks := make(chan time.Time, 16)
	start := time.Now()
	clock.Start(func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})

	var first time.Time
	select {
	case first = <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick delivered")
	}

	if first.Before(start) {
		t.Errorf("tick %v predates start %v", first, start)
	}
}

func TestWallClockStopHaltsDelivery(t *testing.T) {
	clock := NewWallClockWithPeriod(5 * time.Millisecond)

	var count atomic.Int64
	clock.Start(func(time.Time) { count.Add(1) })

	time.Sleep(30 * time.Millisecond)
	clock.Stop()

	if clock.Running() {
		t.Error("Running() = true after Stop")
	}

	// Allow any in-flight tick to drain, then verify the count is frozen.
	time.Sleep(20 * time.Millisecond)
	frozen := count.Load()
	time.Sleep(30 * time.Millisecond)
	if got := count.Load(); got != frozen {
		t.Errorf("ticks after stop: %d -> %d", frozen, got)
	}
}

func TestWallClockStopWhenNotRunning(t *testing.T) {
	clock := NewWallClock()
	clock.Stop()
	clock.Stop()

	if clock.Running() {
		t.Error("Running() = true without Start")
	}
}

func TestWallClockRestartReplacesSource(t *testing.T) {
	clock := NewWallClockWithPeriod(5 * time.Millisecond)
	defer clock.Stop()

	var old, current atomic.Int64
	clock.Start(func(time.Time) { old.Add(1) })
	clock.Start(func(time.Time) { current.Add(1) })

	// The first source must be torn down by the restart.
	time.Sleep(20 * time.Millisecond)
	frozen := old.Load()
	time.Sleep(30 * time.Millisecond)

	if got := old.Load(); got != frozen {
		t.Errorf("replaced source still ticking: %d -> %d", frozen, got)
	}
	if current.Load() == 0 {
		t.Error("replacement source never ticked")
	}
	if !clock.Running() {
		t.Error("Running() = false after restart")
	}
}

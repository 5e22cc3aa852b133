package drivers

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPressTimerFiresOnceAfterHold(t *testing.T) {
	timer := NewPressTimer()

	var fires atomic.Int64
	timer.Start(20*time.Millisecond, func() { fires.Add(1) })

	if !timer.Pending() {
		t.Fatal("Pending() = false after Start")
	}

	time.Sleep(80 * time.Millisecond)

	if got := fires.Load(); got != 1 {
		t.Errorf("fires = %d, want 1", got)
	}
	if timer.Pending() {
		t.Error("Pending() = true after fire")
	}
}

func TestPressTimerAbortBeforeExpiry(t *testing.T) {
	timer := NewPressTimer()

	var fires atomic.Int64
	timer.Start(50*time.Millisecond, func() { fires.Add(1) })
	timer.Abort()

	if timer.Pending() {
		t.Error("Pending() = true after Abort")
	}

	time.Sleep(100 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Errorf("fires = %d after abort, want 0", got)
	}
}

func TestPressTimerImmediateAbortUnderJitter(t *testing.T) {
	// Start immediately followed by abort must never fire, regardless of
	// scheduling jitter. Run it many times with a tiny hold to provoke
	// the race.
	timer := NewPressTimer()

	var fires atomic.Int64
	for i := 0; i < 100; i++ {
		timer.Start(10*time.Millisecond, func() { fires.Add(1) })
		timer.Abort()
	}

	time.Sleep(50 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Errorf("fires = %d across aborted presses, want 0", got)
	}
}

func TestPressTimerRestartCancelsPrior(t *testing.T) {
	timer := NewPressTimer()

	var first, second atomic.Int64
	timer.Start(20*time.Millisecond, func() { first.Add(1) })
	timer.Start(40*time.Millisecond, func() { second.Add(1) })

	time.Sleep(120 * time.Millisecond)

	if got := first.Load(); got != 0 {
		t.Errorf("first arming fired %d times, want 0", got)
	}
	if got := second.Load(); got != 1 {
		t.Errorf("second arming fired %d times, want 1", got)
	}
}

func TestPressTimerAbortWhenNotPending(t *testing.T) {
	timer := NewPressTimer()
	timer.Abort()

	if timer.Pending() {
		t.Error("Pending() = true without Start")
	}
}

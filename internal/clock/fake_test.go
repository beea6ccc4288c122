package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	f := NewFake(epoch)
	f.Advance(1500 * time.Millisecond)
	if got := f.Now().Sub(epoch); got != 1500*time.Millisecond {
		t.Errorf("elapsed: got %v, want 1.5s", got)
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	f := NewFake(epoch)
	var order []int
	f.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	f.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	f.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })

	f.Advance(25 * time.Millisecond)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("after 25ms: got %v, want [1 2]", order)
	}

	f.Advance(5 * time.Millisecond)
	if len(order) != 3 || order[2] != 3 {
		t.Errorf("after 30ms: got %v, want [1 2 3]", order)
	}
}

func TestFakeNowIsDeadlineInsideCallback(t *testing.T) {
	f := NewFake(epoch)
	var seen time.Time
	f.AfterFunc(40*time.Millisecond, func() { seen = f.Now() })
	f.Advance(time.Second)

	if !seen.Equal(epoch.Add(40 * time.Millisecond)) {
		t.Errorf("Now inside callback: got %v, want %v", seen, epoch.Add(40*time.Millisecond))
	}
	if !f.Now().Equal(epoch.Add(time.Second)) {
		t.Errorf("Now after Advance: got %v", f.Now())
	}
}

func TestFakeRescheduleWithinWindow(t *testing.T) {
	f := NewFake(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		f.AfterFunc(16*time.Millisecond, tick)
	}
	f.AfterFunc(16*time.Millisecond, tick)

	f.Advance(160 * time.Millisecond)
	if count != 10 {
		t.Errorf("ticks: got %d, want 10", count)
	}
	if f.Pending() != 1 {
		t.Errorf("pending: got %d, want 1", f.Pending())
	}
}

func TestFakeStop(t *testing.T) {
	f := NewFake(epoch)
	fired := false
	tm := f.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !tm.Stop() {
		t.Error("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	f.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if f.Pending() != 0 {
		t.Errorf("pending: got %d, want 0", f.Pending())
	}
}

func TestFakeStopAfterFire(t *testing.T) {
	f := NewFake(epoch)
	tm := f.AfterFunc(time.Millisecond, func() {})
	f.Advance(time.Millisecond)
	if tm.Stop() {
		t.Error("Stop after fire should report false")
	}
}

func TestFakeZeroDelayWaitsForAdvance(t *testing.T) {
	f := NewFake(epoch)
	fired := false
	f.AfterFunc(0, func() { fired = true })
	if fired {
		t.Fatal("AfterFunc fired synchronously")
	}
	f.Advance(0)
	if !fired {
		t.Error("zero-delay timer did not fire on Advance(0)")
	}
}

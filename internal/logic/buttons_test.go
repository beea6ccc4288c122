package logic

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestButtonBaselineReleased(t *testing.T) {
	d := NewButtonDebouncer(50 * time.Millisecond)

	if presses := d.Process(ButtonInput{Time: t0}); len(presses) != 0 {
		t.Errorf("expected no presses on first sample, got %d", len(presses))
	}
	if d.IsBaselined() {
		t.Error("should not be baselined after one sample")
	}

	if presses := d.Process(ButtonInput{Time: t0.Add(50 * time.Millisecond)}); len(presses) != 0 {
		t.Errorf("expected no presses at baseline, got %d", len(presses))
	}
	if !d.IsBaselined() {
		t.Fatal("should be baselined after debounce window")
	}

	start, pause, reset := d.Levels()
	if start != LevelReleased || pause != LevelReleased || reset != LevelReleased {
		t.Errorf("levels: got %s/%s/%s, want all RELEASED", start, pause, reset)
	}
}

func TestButtonHeldAtStartupDoesNotFire(t *testing.T) {
	d := NewButtonDebouncer(50 * time.Millisecond)

	d.Process(ButtonInput{Start: true, Time: t0})
	presses := d.Process(ButtonInput{Start: true, Time: t0.Add(50 * time.Millisecond)})
	if len(presses) != 0 {
		t.Fatalf("held button should become baseline, got %v", presses)
	}

	// Still held later: nothing.
	presses = d.Process(ButtonInput{Start: true, Time: t0.Add(time.Second)})
	if len(presses) != 0 {
		t.Errorf("expected no presses while held, got %v", presses)
	}

	// Release then press again fires.
	d.Process(ButtonInput{Time: t0.Add(2 * time.Second)})
	d.Process(ButtonInput{Time: t0.Add(2*time.Second + 50*time.Millisecond)})
	d.Process(ButtonInput{Start: true, Time: t0.Add(3 * time.Second)})
	presses = d.Process(ButtonInput{Start: true, Time: t0.Add(3*time.Second + 50*time.Millisecond)})
	if len(presses) != 1 || presses[0].Button != ButtonStart {
		t.Errorf("expected START press after release, got %v", presses)
	}
}

func TestButtonPress(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	if presses := d.Process(ButtonInput{Pause: true, Time: now}); len(presses) != 0 {
		t.Errorf("expected no presses before debounce, got %v", presses)
	}

	presses := d.Process(ButtonInput{Pause: true, Time: now.Add(50 * time.Millisecond)})
	if len(presses) != 1 {
		t.Fatalf("expected 1 press, got %d", len(presses))
	}
	if presses[0].Button != ButtonPause {
		t.Errorf("button: got %s, want %s", presses[0].Button, ButtonPause)
	}
	if !presses[0].Timestamp.Equal(now.Add(50 * time.Millisecond)) {
		t.Errorf("timestamp: got %v", presses[0].Timestamp)
	}
}

func TestButtonReleaseDoesNotFire(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	d.Process(ButtonInput{Reset: true, Time: now})
	d.Process(ButtonInput{Reset: true, Time: now.Add(50 * time.Millisecond)})

	d.Process(ButtonInput{Time: now.Add(200 * time.Millisecond)})
	presses := d.Process(ButtonInput{Time: now.Add(250 * time.Millisecond)})
	if len(presses) != 0 {
		t.Errorf("release should not emit, got %v", presses)
	}
	_, _, reset := d.Levels()
	if reset != LevelReleased {
		t.Errorf("reset level: got %s, want RELEASED", reset)
	}
}

func TestButtonBounceShorterThanDebounce(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	d.Process(ButtonInput{Start: true, Time: now})
	d.Process(ButtonInput{Time: now.Add(20 * time.Millisecond)})
	presses := d.Process(ButtonInput{Time: now.Add(100 * time.Millisecond)})
	if len(presses) != 0 {
		t.Errorf("expected no presses after bounce, got %v", presses)
	}
}

func TestButtonMultipleBouncesRestartWindow(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	for i, v := range []bool{true, false, true, false, true} {
		presses := d.Process(ButtonInput{Start: v, Time: now.Add(time.Duration(i*10) * time.Millisecond)})
		if len(presses) != 0 {
			t.Errorf("iteration %d: expected no presses during bouncing, got %v", i, presses)
		}
	}

	// Last change was at 40ms; 80ms is only 40ms after it.
	if presses := d.Process(ButtonInput{Start: true, Time: now.Add(80 * time.Millisecond)}); len(presses) != 0 {
		t.Errorf("expected no presses (window restarted), got %v", presses)
	}
	if presses := d.Process(ButtonInput{Start: true, Time: now.Add(90 * time.Millisecond)}); len(presses) != 1 {
		t.Errorf("expected 1 press after settling, got %v", presses)
	}
}

func TestButtonSimultaneousOrder(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	all := ButtonInput{Start: true, Pause: true, Reset: true, Time: now}
	d.Process(all)
	all.Time = now.Add(50 * time.Millisecond)
	presses := d.Process(all)

	want := []Button{ButtonStart, ButtonPause, ButtonReset}
	if len(presses) != len(want) {
		t.Fatalf("expected %d presses, got %d", len(want), len(presses))
	}
	for i, b := range want {
		if presses[i].Button != b {
			t.Errorf("press %d: got %s, want %s", i, presses[i].Button, b)
		}
	}
}

func TestButtonDebounceExactTiming(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	d.Process(ButtonInput{Start: true, Time: now})
	if presses := d.Process(ButtonInput{Start: true, Time: now.Add(49 * time.Millisecond)}); len(presses) != 0 {
		t.Error("should not fire at 49ms")
	}
	if presses := d.Process(ButtonInput{Start: true, Time: now.Add(50 * time.Millisecond)}); len(presses) != 1 {
		t.Error("should fire at exactly 50ms")
	}
}

func TestButtonAsymmetricBaseline(t *testing.T) {
	d := NewButtonDebouncer(50 * time.Millisecond)

	d.Process(ButtonInput{Time: t0})
	d.Process(ButtonInput{Reset: true, Time: t0.Add(20 * time.Millisecond)})

	d.Process(ButtonInput{Reset: true, Time: t0.Add(50 * time.Millisecond)})
	if d.IsBaselined() {
		t.Error("reset line timer restarted, should not be baselined yet")
	}

	presses := d.Process(ButtonInput{Reset: true, Time: t0.Add(70 * time.Millisecond)})
	if len(presses) != 0 {
		t.Errorf("expected no presses at baseline, got %v", presses)
	}
	if !d.IsBaselined() {
		t.Error("should be baselined now")
	}
}

func TestButtonCounts(t *testing.T) {
	d := baselinedDebouncer(t)
	now := t0.Add(time.Minute)

	press := func(in ButtonInput, at time.Time) {
		in.Time = at
		d.Process(in)
		in.Time = at.Add(50 * time.Millisecond)
		d.Process(in)
		d.Process(ButtonInput{Time: at.Add(100 * time.Millisecond)})
		d.Process(ButtonInput{Time: at.Add(150 * time.Millisecond)})
	}

	press(ButtonInput{Start: true}, now)
	press(ButtonInput{Start: true}, now.Add(time.Second))
	press(ButtonInput{Pause: true}, now.Add(2*time.Second))

	got := d.Counts()
	want := PressCounts{Start: 2, Pause: 1, Reset: 0}
	if got != want {
		t.Errorf("counts: got %+v, want %+v", got, want)
	}
}

func TestLevelsBeforeBaseline(t *testing.T) {
	d := NewButtonDebouncer(50 * time.Millisecond)
	start, pause, reset := d.Levels()
	if start != "" || pause != "" || reset != "" {
		t.Errorf("expected empty levels before baseline, got %s/%s/%s", start, pause, reset)
	}
}

// baselinedDebouncer returns a debouncer with every button released and stable.
func baselinedDebouncer(t *testing.T) *ButtonDebouncer {
	t.Helper()
	d := NewButtonDebouncer(50 * time.Millisecond)
	d.Process(ButtonInput{Time: t0})
	d.Process(ButtonInput{Time: t0.Add(50 * time.Millisecond)})
	if !d.IsBaselined() {
		t.Fatal("failed to establish baseline")
	}
	return d
}

package logic

import "time"

// Button identifies a physical control.
type Button string

const (
	ButtonStart Button = "START"
	ButtonPause Button = "PAUSE"
	ButtonReset Button = "RESET"
)

// ButtonLevel is the debounced level of one button line.
type ButtonLevel string

const (
	LevelPressed  ButtonLevel = "PRESSED"
	LevelReleased ButtonLevel = "RELEASED"
)

// ButtonInput is a single sample of all three button lines (already
// converted to logical pressed/released).
type ButtonInput struct {
	Start bool
	Pause bool
	Reset bool
	Time  time.Time
}

// Press is a debounced button press.
type Press struct {
	Timestamp time.Time
	Button    Button
}

// PressCounts tracks presses per button since startup.
type PressCounts struct {
	Start int
	Pause int
	Reset int
}

// lineState tracks debounce state for a single button line.
type lineState struct {
	// Current stable (debounced) level
	Stable ButtonLevel
	// Level observed but not yet stable
	Pending ButtonLevel
	// Time when pending level was first observed
	PendingSince time.Time
	// Whether a stable level has been established
	Baselined bool
}

// ButtonDebouncer turns raw button samples into debounced presses.
// A button held down at startup becomes the baseline and does not fire.
type ButtonDebouncer struct {
	debounce  time.Duration
	lines     [3]lineState
	baselined bool
	counts    PressCounts
}

var buttonOrder = [3]Button{ButtonStart, ButtonPause, ButtonReset}

// NewButtonDebouncer creates a debouncer with the given settle window.
func NewButtonDebouncer(debounce time.Duration) *ButtonDebouncer {
	return &ButtonDebouncer{debounce: debounce}
}

// Process takes a sample and returns presses that completed debounce.
// Presses are returned in start, pause, reset order when simultaneous.
func (d *ButtonDebouncer) Process(in ButtonInput) []Press {
	raw := [3]bool{in.Start, in.Pause, in.Reset}

	var pressed [3]bool
	for i := range d.lines {
		pressed[i] = d.processLine(&d.lines[i], levelOf(raw[i]), in.Time)
	}

	if !d.baselined {
		d.baselined = d.lines[0].Baselined && d.lines[1].Baselined && d.lines[2].Baselined
		return nil
	}

	var presses []Press
	for i, p := range pressed {
		if !p {
			continue
		}
		presses = append(presses, Press{Timestamp: in.Time, Button: buttonOrder[i]})
		switch buttonOrder[i] {
		case ButtonStart:
			d.counts.Start++
		case ButtonPause:
			d.counts.Pause++
		case ButtonReset:
			d.counts.Reset++
		}
	}
	return presses
}

// processLine debounces one line. It reports true when the stable level
// changes from released to pressed after the baseline.
func (d *ButtonDebouncer) processLine(l *lineState, level ButtonLevel, now time.Time) bool {
	if !l.Baselined {
		if l.Pending != level {
			l.Pending = level
			l.PendingSince = now
			return false
		}
		if now.Sub(l.PendingSince) >= d.debounce {
			l.Stable = level
			l.Baselined = true
			l.Pending = ""
		}
		return false
	}

	if level == l.Stable {
		l.Pending = ""
		return false
	}

	if l.Pending != level {
		l.Pending = level
		l.PendingSince = now
		return false
	}

	if now.Sub(l.PendingSince) < d.debounce {
		return false
	}
	l.Stable = level
	l.Pending = ""
	return level == LevelPressed
}

func levelOf(pressed bool) ButtonLevel {
	if pressed {
		return LevelPressed
	}
	return LevelReleased
}

// IsBaselined returns whether every line has a stable level.
func (d *ButtonDebouncer) IsBaselined() bool {
	return d.baselined
}

// Levels returns the stable level of each button.
func (d *ButtonDebouncer) Levels() (start, pause, reset ButtonLevel) {
	return d.lines[0].Stable, d.lines[1].Stable, d.lines[2].Stable
}

// Counts returns the press counters.
func (d *ButtonDebouncer) Counts() PressCounts {
	return d.counts
}

// Package gpio reads the start, pause and reset push buttons.
// The real implementation uses the Linux GPIO character device; the fake
// replays scripted samples for tests.
package gpio

// Buttons is one sample of the three button lines in logical form
// (true = pressed).
type Buttons struct {
	Start bool
	Pause bool
	Reset bool
}

// Reader reads button states.
type Reader interface {
	// Read returns the current logical button states. The lines are
	// active low: a raw 0 (button shorting to ground) reads as pressed.
	Read() (Buttons, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds BCM line offsets for the buttons.
type Pins struct {
	Start int
	Pause int
	Reset int
}

// DefaultPins is the wiring used on the reference Raspberry Pi build.
var DefaultPins = Pins{Start: 17, Pause: 27, Reset: 22}

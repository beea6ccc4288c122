// Package clock abstracts the time source used by the timer engine.
// Production code injects Real; tests inject Fake and drive time by hand.
package clock

import "time"

// Clock provides the current time and scheduled callbacks.
type Clock interface {
	// Now returns the current time. Successive calls never go backwards.
	Now() time.Time

	// AfterFunc calls f in its own goroutine (Real) or from Advance (Fake)
	// once d has elapsed. The callback never runs synchronously inside
	// AfterFunc.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from firing. Returns false if the timer
	// already fired or was already stopped; calling it again is harmless.
	Stop() bool
}

// Real is backed by the time package.
type Real struct{}

// Now returns time.Now.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

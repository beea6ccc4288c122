package engine

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/sweeney/nightfall-candle/internal/logic"
)

// Flame-out spring parameters. Critical damping reaches rest in roughly
// 900ms without overshoot.
const (
	exitAngularFrequency = 8.0
	exitDampingRatio     = 1.0
	exitEpsilon          = 0.01
	exitMinScale         = 0.8
)

// ExitAnimation animates the flame out one frame at a time.
type ExitAnimation interface {
	// Step advances one frame and returns the frame to display.
	Step() logic.ExitFrame
	// Settled reports whether the animation has come to rest.
	Settled() bool
}

// ExitFactory builds a fresh exit animation for a frame interval.
type ExitFactory func(frame time.Duration) ExitAnimation

// SpringExit drives flame opacity 1→0 and scale 1→0.8 with a critically
// damped spring.
type SpringExit struct {
	spring   harmonica.Spring
	pos, vel float64
}

// NewSpringExit creates a spring exit stepping at the given frame interval.
func NewSpringExit(frame time.Duration) ExitAnimation {
	return &SpringExit{
		spring: harmonica.NewSpring(frame.Seconds(), exitAngularFrequency, exitDampingRatio),
		pos:    1,
	}
}

func (s *SpringExit) Step() logic.ExitFrame {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, 0)
	return exitFrame(s.pos)
}

func (s *SpringExit) Settled() bool {
	return math.Abs(s.pos) < exitEpsilon && math.Abs(s.vel) < exitEpsilon*10
}

// exitFrame maps spring position (1 lit, 0 out) to a display frame.
func exitFrame(pos float64) logic.ExitFrame {
	p := math.Min(1, math.Max(0, pos))
	return logic.ExitFrame{
		Opacity: p,
		Scale:   exitMinScale + (1-exitMinScale)*p,
	}
}

// finalExitFrame is the resting frame once the flame is out.
var finalExitFrame = logic.ExitFrame{Opacity: 0, Scale: exitMinScale}

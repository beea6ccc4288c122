package engine

import (
	"time"

	"github.com/sweeney/nightfall-candle/internal/clock"
)

// scheduler owns the single outstanding frame callback. It is not safe for
// concurrent use; the engine serializes access under its own lock.
type scheduler struct {
	clk      clock.Clock
	interval time.Duration
	running  bool
	gen      uint64
	timer    clock.Timer
	frame    func(gen uint64)
}

func newScheduler(clk clock.Clock, interval time.Duration, frame func(gen uint64)) *scheduler {
	return &scheduler{clk: clk, interval: interval, frame: frame}
}

// start moves Stopped to Running and arms the first frame. It returns false
// when already running.
func (s *scheduler) start() bool {
	if s.running {
		return false
	}
	s.running = true
	s.gen++
	s.arm()
	return true
}

// stop moves to Stopped. Any callback already queued becomes stale.
func (s *scheduler) stop() {
	s.cancel()
	s.running = false
	s.gen++
}

// arm schedules the next frame for the current generation.
func (s *scheduler) arm() {
	s.cancel()
	gen := s.gen
	s.timer = s.clk.AfterFunc(s.interval, func() { s.frame(gen) })
}

// current reports whether a callback from gen should run. A current
// callback consumes the handle.
func (s *scheduler) current(gen uint64) bool {
	if !s.running || gen != s.gen {
		return false
	}
	s.timer = nil
	return true
}

// cancel releases the pending handle. Safe to call repeatedly.
func (s *scheduler) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

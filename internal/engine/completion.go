package engine

import (
	"log"
	"time"

	"github.com/sweeney/nightfall-candle/internal/audio"
	"github.com/sweeney/nightfall-candle/internal/clock"
	"github.com/sweeney/nightfall-candle/internal/logic"
)

// completion holds the flame-out sequence. gen is bumped whenever the
// sequence is abandoned so late callbacks can tell they are stale.
type completion struct {
	gen     uint64
	anim    ExitAnimation
	settled bool

	step   clock.Timer
	smoke  clock.Timer
	safety clock.Timer
}

// complete runs once per run, when a frame observes zero remaining.
// Caller holds e.mu.
func (e *Engine) complete(now time.Time) {
	if !e.tracker.Complete(now) {
		return
	}
	e.sched.stop()
	e.emitter.Stop(true)
	e.guard("stop loop", func() { e.audio.StopLoop(e.variant.Loop) })
	e.guard("play extinguish", func() { e.audio.PlayOnce(audio.SoundExtinguish) })

	s := e.tracker.Sample(now)
	e.paint(s)
	e.message = e.variant.Message(e.rng, s.Elapsed)
	e.updateControls()
	e.flush()

	e.beginExit()
	e.emit(logic.EventCompleted, now)
}

// beginExit arms the exit animation, the smoke reveal and the safety net.
func (e *Engine) beginExit() {
	c := &e.done
	c.gen++
	gen := c.gen
	c.anim = e.newExit(e.interval)
	c.settled = false
	c.step = e.clk.AfterFunc(e.interval, func() { e.exitFrame(gen) })
	c.smoke = e.clk.AfterFunc(e.smokeDelay, func() { e.revealSmoke(gen) })
	c.safety = e.clk.AfterFunc(e.safetyTimeout, func() { e.forceSettle(gen) })
}

func (e *Engine) exitFrame(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := &e.done
	if gen != c.gen || c.settled {
		return
	}
	c.step = nil
	f := c.anim.Step()
	e.guard("apply exit", func() { e.sink.ApplyExit(f) })
	e.flush()
	if c.anim.Settled() {
		e.settle()
		return
	}
	c.step = e.clk.AfterFunc(e.interval, func() { e.exitFrame(gen) })
}

func (e *Engine) revealSmoke(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.done.gen {
		return
	}
	e.done.smoke = nil
	e.guard("show smoke", e.sink.ShowSmoke)
	e.flush()
}

func (e *Engine) forceSettle(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.done.gen || e.done.settled {
		return
	}
	e.done.safety = nil
	log.Printf("engine: exit animation not settled after %v, forcing", e.safetyTimeout)
	e.settle()
}

// settle finishes the flame-out and shows the message. Caller holds e.mu.
func (e *Engine) settle() {
	c := &e.done
	if c.settled {
		return
	}
	c.settled = true
	stopTimer(&c.step)
	stopTimer(&c.safety)
	e.guard("apply exit", func() { e.sink.ApplyExit(finalExitFrame) })
	msg := e.message
	e.guard("show message", func() { e.sink.ShowMessage(msg) })
	e.flush()
}

// cancelCompletion abandons any flame-out in progress.
func (e *Engine) cancelCompletion() {
	c := &e.done
	c.gen++
	stopTimer(&c.step)
	stopTimer(&c.smoke)
	stopTimer(&c.safety)
	c.anim = nil
	c.settled = false
}

func stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/nightfall-candle/internal/engine"
	"github.com/sweeney/nightfall-candle/internal/gpio"
	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/mqtt"
	"github.com/sweeney/nightfall-candle/internal/status"
	"github.com/sweeney/nightfall-candle/internal/storage"
)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdPause
	cmdReset
	cmdDuration
	cmdMute
	cmdQuit
)

// command is a user intent from the keyboard or a button.
type command struct {
	kind     commandKind
	duration time.Duration // cmdDuration only
}

// sessionStore is the slice of storage.Store the loop writes to.
type sessionStore interface {
	SetPref(key string, v any) error
	SaveSession(s storage.Session) error
}

// muteControl is the mute switch of the audio manager.
type muteControl interface {
	SetMuted(bool)
	Muted() bool
}

// loop owns everything the main select touches. Optional collaborators
// (store, buttons, note) may be nil.
type loop struct {
	engine     *engine.Engine
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	sessions   *storage.SessionLog
	store      sessionStore
	sound      muteControl
	buttons    gpio.Reader
	debouncer  *logic.ButtonDebouncer
	note       func(string)
	now        func() time.Time
}

func (l *loop) run(sig <-chan os.Signal, commands <-chan command, poll, beat, refresh <-chan time.Time) error {
	events := l.engine.Events()
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			l.shutdown(signalName)
			return nil

		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			l.handleEvent(evt)

		case c := <-commands:
			if c.kind == cmdQuit {
				log.Printf("quit requested, shutting down")
				l.shutdown("QUIT")
				return nil
			}
			l.apply(c)

		case <-poll:
			l.pollButtons()

		case <-beat:
			l.heartbeat()

		case <-refresh:
			l.refreshStatus()
		}
	}
}

func (l *loop) handleEvent(evt logic.Event) {
	log.Printf("event: %s (phase=%s remaining=%v)", evt.Type, evt.Phase, evt.Remaining)
	if err := l.publisher.Publish(evt); err != nil {
		log.Printf("publish error: %v", err)
	}
	l.refreshStatus()

	sess, done := l.sessions.Observe(evt)
	if !done || l.store == nil {
		return
	}
	if err := l.store.SaveSession(sess); err != nil {
		log.Printf("save session: %v", err)
	}
}

func (l *loop) apply(c command) {
	switch c.kind {
	case cmdStart:
		l.engine.Start()
	case cmdPause:
		l.engine.Pause()
	case cmdReset:
		l.engine.Reset()
	case cmdDuration:
		// A new duration only takes while idle, so abandon whatever is running.
		if l.engine.Snapshot().Phase != logic.PhaseIdle {
			l.engine.Reset()
		}
		l.engine.Configure(c.duration)
	case cmdMute:
		muted := !l.sound.Muted()
		l.sound.SetMuted(muted)
		l.tracker.SetMuted(muted)
		if l.note != nil {
			l.note(noteFor(muted))
		}
		if l.store != nil {
			if err := l.store.SetPref(prefMuted, muted); err != nil {
				log.Printf("save pref %s: %v", prefMuted, err)
			}
		}
	}
}

func (l *loop) pollButtons() {
	b, err := l.buttons.Read()
	if err != nil {
		log.Printf("gpio read error: %v", err)
		return
	}
	presses := l.debouncer.Process(logic.ButtonInput{
		Start: b.Start,
		Pause: b.Pause,
		Reset: b.Reset,
		Time:  l.now(),
	})
	for _, p := range presses {
		log.Printf("button: %s", p.Button)
		switch p.Button {
		case logic.ButtonStart:
			l.apply(command{kind: cmdStart})
		case logic.ButtonPause:
			l.apply(command{kind: cmdPause})
		case logic.ButtonReset:
			l.apply(command{kind: cmdReset})
		}
	}
	if len(presses) > 0 {
		l.tracker.SetButtons(l.debouncer.Counts())
	}
}

func (l *loop) heartbeat() {
	if net := readNetworkInfo(); net != nil {
		l.tracker.SetNetwork(net)
	}
	l.refreshStatus()
	snap := l.tracker.Snapshot()
	log.Printf("heartbeat: uptime=%v phase=%s started=%d completed=%d",
		snap.Uptime().Truncate(time.Second), snap.Timer.Phase, snap.Timer.Counts.Started, snap.Timer.Counts.Completed)

	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (l *loop) refreshStatus() {
	l.tracker.Update(l.engine.Snapshot())
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *loop) shutdown(reason string) {
	l.refreshStatus()
	snap := l.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  l.now(),
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func noteFor(muted bool) string {
	if muted {
		return "sound off (m)"
	}
	return "sound on (m)"
}

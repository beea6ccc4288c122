package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/nightfall-candle/internal/logic"
)

// SessionLog turns lifecycle events into Sessions. A session opens on
// STARTED and closes on COMPLETED, or on RESET once it has begun.
type SessionLog struct {
	variant   string
	open      *Session
	elapsed   time.Duration // folded in at each pause
	resumedAt time.Time     // zero while paused
}

// NewSessionLog creates a log for one variant.
func NewSessionLog(variant string) *SessionLog {
	return &SessionLog{variant: variant}
}

// Observe feeds one event and returns the session it closed, if any.
func (l *SessionLog) Observe(evt logic.Event) (Session, bool) {
	switch evt.Type {
	case logic.EventStarted:
		l.open = &Session{
			ID:        uuid.NewString(),
			Variant:   l.variant,
			StartedAt: evt.Timestamp,
			Duration:  evt.Duration,
		}
		l.elapsed = 0
		l.resumedAt = evt.Timestamp

	case logic.EventResumed:
		l.resumedAt = evt.Timestamp

	case logic.EventPaused:
		l.elapsed = evt.Elapsed
		l.resumedAt = time.Time{}

	case logic.EventCompleted, logic.EventReset:
		if l.open == nil {
			return Session{}, false
		}
		sess := *l.open
		sess.EndedAt = evt.Timestamp
		sess.Completed = evt.Type == logic.EventCompleted
		sess.Elapsed = l.elapsedAt(evt.Timestamp, sess.Duration)
		if sess.Completed {
			sess.Elapsed = sess.Duration
		}
		l.open = nil
		l.resumedAt = time.Time{}
		return sess, true
	}
	return Session{}, false
}

func (l *SessionLog) elapsedAt(now time.Time, limit time.Duration) time.Duration {
	e := l.elapsed
	if !l.resumedAt.IsZero() {
		e += now.Sub(l.resumedAt)
	}
	return min(e, limit)
}

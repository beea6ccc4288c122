package storage

import (
	"testing"
	"time"

	"github.com/sweeney/nightfall-candle/internal/logic"
)

var t0 = time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrefs(t *testing.T) {
	s := openMemory(t)

	var muted bool
	ok, err := s.GetPref("muted", &muted)
	if err != nil || ok {
		t.Fatalf("unset pref: got ok=%v err=%v", ok, err)
	}

	if err := s.SetPref("muted", true); err != nil {
		t.Fatalf("SetPref: %v", err)
	}
	if err := s.SetPref("volume", 0.25); err != nil {
		t.Fatalf("SetPref: %v", err)
	}
	if err := s.SetPref("muted", false); err != nil {
		t.Fatalf("SetPref overwrite: %v", err)
	}

	muted = true
	if ok, err := s.GetPref("muted", &muted); err != nil || !ok || muted {
		t.Errorf("muted: got %v ok=%v err=%v, want false", muted, ok, err)
	}
	var vol float64
	if ok, err := s.GetPref("volume", &vol); err != nil || !ok || vol != 0.25 {
		t.Errorf("volume: got %v ok=%v err=%v, want 0.25", vol, ok, err)
	}

	var wrong []string
	if _, err := s.GetPref("volume", &wrong); err == nil {
		t.Error("decoding into the wrong type should fail")
	}
}

func TestSessions(t *testing.T) {
	s := openMemory(t)

	older := Session{
		ID: "a", Variant: "focus",
		StartedAt: t0, EndedAt: t0.Add(25 * time.Minute),
		Duration: 25 * time.Minute, Elapsed: 25 * time.Minute, Completed: true,
	}
	newer := Session{
		ID: "b", Variant: "candle",
		StartedAt: t0.Add(time.Hour), EndedAt: t0.Add(time.Hour + 90*time.Second),
		Duration: 5 * time.Minute, Elapsed: 90 * time.Second,
	}
	for _, sess := range []Session{older, newer} {
		if err := s.SaveSession(sess); err != nil {
			t.Fatalf("SaveSession(%s): %v", sess.ID, err)
		}
	}
	if err := s.SaveSession(Session{}); err == nil {
		t.Error("expected an error for an empty id")
	}

	got, err := s.Sessions(10)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("sessions: got %d, want 2", len(got))
	}
	if !sameSession(got[0], newer) || !sameSession(got[1], older) {
		t.Errorf("sessions:\n got %+v\nwant %+v", got, []Session{newer, older})
	}

	got, err = s.Sessions(1)
	if err != nil || len(got) != 1 || got[0].ID != "b" {
		t.Errorf("limited: got %+v, %v", got, err)
	}
}

func sameSession(a, b Session) bool {
	return a.ID == b.ID && a.Variant == b.Variant &&
		a.StartedAt.Equal(b.StartedAt) && a.EndedAt.Equal(b.EndedAt) &&
		a.Duration == b.Duration && a.Elapsed == b.Elapsed && a.Completed == b.Completed
}

func TestSessionLogCompleted(t *testing.T) {
	l := NewSessionLog("candle")
	evts := []logic.Event{
		{Type: logic.EventConfigured, Timestamp: t0, Duration: time.Minute},
		{Type: logic.EventStarted, Timestamp: t0, Duration: time.Minute},
		{Type: logic.EventPaused, Timestamp: t0.Add(20 * time.Second), Duration: time.Minute, Elapsed: 20 * time.Second},
		{Type: logic.EventResumed, Timestamp: t0.Add(30 * time.Second), Duration: time.Minute, Elapsed: 20 * time.Second},
	}
	for _, evt := range evts {
		if _, ok := l.Observe(evt); ok {
			t.Fatalf("%s should not close a session", evt.Type)
		}
	}
	sess, ok := l.Observe(logic.Event{Type: logic.EventCompleted, Timestamp: t0.Add(70 * time.Second), Duration: time.Minute, Elapsed: time.Minute})
	if !ok {
		t.Fatal("COMPLETED should close the session")
	}
	if sess.ID == "" || sess.Variant != "candle" || !sess.Completed {
		t.Errorf("session: got %+v", sess)
	}
	if sess.Elapsed != time.Minute || !sess.EndedAt.Equal(t0.Add(70*time.Second)) {
		t.Errorf("elapsed/end: got %v/%v", sess.Elapsed, sess.EndedAt)
	}

	if _, ok := l.Observe(logic.Event{Type: logic.EventReset, Timestamp: t0.Add(80 * time.Second)}); ok {
		t.Error("RESET after completion should not close another session")
	}
}

func TestSessionLogAbandoned(t *testing.T) {
	l := NewSessionLog("focus")
	l.Observe(logic.Event{Type: logic.EventStarted, Timestamp: t0, Duration: 10 * time.Minute})
	l.Observe(logic.Event{Type: logic.EventPaused, Timestamp: t0.Add(time.Minute), Duration: 10 * time.Minute, Elapsed: time.Minute})
	l.Observe(logic.Event{Type: logic.EventResumed, Timestamp: t0.Add(5 * time.Minute), Duration: 10 * time.Minute, Elapsed: time.Minute})

	sess, ok := l.Observe(logic.Event{Type: logic.EventReset, Timestamp: t0.Add(7 * time.Minute)})
	if !ok {
		t.Fatal("RESET mid-run should close the session")
	}
	if sess.Completed {
		t.Error("abandoned session should not be completed")
	}
	if sess.Elapsed != 3*time.Minute {
		t.Errorf("elapsed: got %v, want 3m", sess.Elapsed)
	}

	first := sess.ID
	l.Observe(logic.Event{Type: logic.EventStarted, Timestamp: t0.Add(8 * time.Minute), Duration: 10 * time.Minute})
	sess, _ = l.Observe(logic.Event{Type: logic.EventReset, Timestamp: t0.Add(9 * time.Minute)})
	if sess.ID == first {
		t.Error("each session should get a fresh id")
	}
}

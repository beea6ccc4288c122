package mqtt

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/nightfall-candle/internal/logic"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type sent struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

type fakeClient struct {
	mu     sync.Mutex
	open   bool
	err    error
	sent   []sent
	closed bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return fakeToken{err: c.err}
	}
	c.sent = append(c.sent, sent{topic, qos, retained, string(payload.([]byte))})
	return fakeToken{}
}

func (c *fakeClient) IsConnectionOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeClient) setOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

func TestRealPublisherSendsWhenConnected(t *testing.T) {
	c := &fakeClient{open: true}
	p := newPublisherWithClient(c, 8)

	if err := p.Publish(logic.Event{Timestamp: ts, Type: logic.EventStarted}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Timestamp: ts, Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if len(c.sent) != 2 {
		t.Fatalf("sent: got %d, want 2", len(c.sent))
	}
	if c.sent[0].topic != Topic || c.sent[0].qos != 0 || c.sent[0].retained {
		t.Errorf("event message: got %+v", c.sent[0])
	}
	if c.sent[1].topic != TopicSystem || c.sent[1].qos != 1 || !c.sent[1].retained {
		t.Errorf("system message: got %+v", c.sent[1])
	}
	if !p.IsConnected() {
		t.Error("IsConnected should follow the client")
	}
}

func TestRealPublisherBuffersAndReplays(t *testing.T) {
	c := &fakeClient{}
	p := newPublisherWithClient(c, 8)
	p.now = func() time.Time { return ts }

	// First connection: nothing to announce.
	p.onConnect()
	c.setOpen(false)

	for _, typ := range []logic.EventType{logic.EventStarted, logic.EventPaused, logic.EventResumed} {
		if err := p.Publish(logic.Event{Timestamp: ts, Type: typ}); err != nil {
			t.Fatalf("Publish while offline should buffer, got %v", err)
		}
	}
	if len(c.sent) != 0 {
		t.Fatalf("sent while offline: %d", len(c.sent))
	}
	if p.Buffered() != 3 {
		t.Errorf("Buffered: got %d, want 3", p.Buffered())
	}

	c.setOpen(true)
	p.onConnect()

	if len(c.sent) != 4 {
		t.Fatalf("sent after reconnect: got %d, want 3 replayed + RECONNECTED", len(c.sent))
	}
	for i, want := range []string{"STARTED", "PAUSED", "RESUMED"} {
		if !strings.Contains(c.sent[i].payload, `"event":"`+want+`"`) {
			t.Errorf("replay %d: got %s, want %s", i, c.sent[i].payload, want)
		}
	}
	last := c.sent[3]
	if last.topic != TopicSystem || !strings.Contains(last.payload, "RECONNECTED") {
		t.Errorf("last message: got %+v", last)
	}
	if p.Buffered() != 0 {
		t.Errorf("Buffered after replay: got %d", p.Buffered())
	}
}

func TestRealPublisherBuffersFailedSend(t *testing.T) {
	c := &fakeClient{open: true, err: errors.New("not connected")}
	p := newPublisherWithClient(c, 8)

	err := p.Publish(logic.Event{Timestamp: ts, Type: logic.EventReset})
	if err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Fatalf("Publish: got %v", err)
	}
	if p.Buffered() != 1 {
		t.Errorf("failed message should be buffered, got %d", p.Buffered())
	}

	c.err = nil
	p.onConnect()
	if len(c.sent) != 1 {
		t.Errorf("replayed: got %d, want 1", len(c.sent))
	}
}

func TestRealPublisherClose(t *testing.T) {
	c := &fakeClient{}
	p := newPublisherWithClient(c, 1)
	p.Close()
	if !c.closed {
		t.Error("Close should disconnect")
	}
}

package pubsub

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ps := New()
	if ps == nil {
		t.Fatal("New() returned nil")
	}
	if ps.subscribers == nil {
		t.Error("subscribers slice should be initialized")
	}
	if ps.upstream != nil {
		t.Error("upstream should be nil for basic PubSub")
	}
}

func TestNewEventEncodesPayload(t *testing.T) {
	ev := NewEvent(EventAuctionResult, map[string]any{
		"playerId": "player_ab12",
		"team":     "Team A",
		"price":    27.0,
	})
	if ev.Type != EventAuctionResult {
		t.Errorf("expected type %s, got %s", EventAuctionResult, ev.Type)
	}

	var body map[string]any
	if err := json.Unmarshal(ev.Payload, &body); err != nil {
		t.Fatalf("payload should be valid JSON: %v", err)
	}
	if body["team"] != "Team A" {
		t.Errorf("expected team Team A, got %v", body["team"])
	}
}

func TestNewEventNilPayload(t *testing.T) {
	ev := NewEvent(EventValuesUpdated, nil)
	if ev.Payload != nil {
		t.Errorf("expected nil payload, got %s", ev.Payload)
	}
}

func TestSubscribe(t *testing.T) {
	ps := New()

	ch := ps.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil channel")
	}

	ps.mu.RLock()
	if len(ps.subscribers) != 1 {
		t.Errorf("expected 1 subscriber, got %d", len(ps.subscribers))
	}
	ps.mu.RUnlock()
}

func TestUnsubscribe(t *testing.T) {
	ps := New()

	ch := ps.Subscribe()
	ps.Unsubscribe(ch)

	ps.mu.RLock()
	if len(ps.subscribers) != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", len(ps.subscribers))
	}
	ps.mu.RUnlock()

	// Verify channel is closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after unsubscribe")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestUnsubscribeMiddle(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()

	ps.Unsubscribe(ch2)

	ps.mu.RLock()
	if len(ps.subscribers) != 2 {
		t.Errorf("expected 2 subscribers, got %d", len(ps.subscribers))
	}
	ps.mu.RUnlock()

	ps.Publish(NewEvent(EventValuesUpdated, nil))

	select {
	case <-ch1:
		// ok
	case <-time.After(100 * time.Millisecond):
		t.Error("ch1 should have received event")
	}

	select {
	case <-ch3:
		// ok
	case <-time.After(100 * time.Millisecond):
		t.Error("ch3 should have received event")
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	ps := New()

	// Should not panic
	ps.Publish(NewEvent(EventAuctionSync, nil))
}

func TestPublishFanOut(t *testing.T) {
	ps := New()

	const subscriberCount = 5
	channels := make([]chan Event, subscriberCount)
	for i := range channels {
		channels[i] = ps.Subscribe()
	}

	ps.Publish(NewEvent(EventAuctionResult, map[string]any{"price": 14.0}))

	for i, ch := range channels {
		select {
		case ev := <-ch:
			if ev.Type != EventAuctionResult {
				t.Errorf("subscriber %d: expected type %s, got %s", i, EventAuctionResult, ev.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive event", i)
		}
	}
}

func TestPublishSlowSubscriberDropped(t *testing.T) {
	ps := New()

	slow := ps.Subscribe()
	// Fill the slow subscriber's buffer
	for i := 0; i < cap(slow)+5; i++ {
		ps.Publish(NewEvent(EventValuesUpdated, nil))
	}

	// Events beyond the buffer are dropped, never blocking Publish
	healthy := ps.Subscribe()
	done := make(chan struct{})
	go func() {
		ps.Publish(NewEvent(EventAuctionSync, nil))
		close(done)
	}()

	select {
	case <-done:
		// ok
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	select {
	case ev := <-healthy:
		if ev.Type != EventAuctionSync {
			t.Errorf("expected %s, got %s", EventAuctionSync, ev.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("healthy subscriber should still receive events")
	}
}

// fakeUpstream records published events and echoes them back to its
// subscribers the way a broker would.
type fakeUpstream struct {
	mu        sync.Mutex
	published []Event
	subs      []chan Event
}

func (f *fakeUpstream) Publish(ev Event) {
	f.mu.Lock()
	f.published = append(f.published, ev)
	subs := make([]chan Event, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, ch := range subs {
		ch <- ev
	}
}

func (f *fakeUpstream) Subscribe() chan Event {
	ch := make(chan Event, 10)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch
}

func (f *fakeUpstream) Unsubscribe(ch chan Event) {}

func TestPublishRoutesThroughUpstream(t *testing.T) {
	up := &fakeUpstream{}
	ps := NewWithUpstream(up)

	// Give the bridge goroutine a moment to subscribe
	time.Sleep(10 * time.Millisecond)

	local := ps.Subscribe()
	ps.Publish(NewEvent(EventAuctionResult, map[string]any{"team": "Team B"}))

	select {
	case ev := <-local:
		if ev.Type != EventAuctionResult {
			t.Errorf("expected %s, got %s", EventAuctionResult, ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("local subscriber never saw the upstream echo")
	}

	up.mu.Lock()
	defer up.mu.Unlock()
	if len(up.published) != 1 {
		t.Errorf("expected 1 upstream publish, got %d", len(up.published))
	}
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			ps.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			ps.Publish(NewEvent(EventValuesUpdated, nil))
		}()
	}
	wg.Wait()
}

package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/HerbHall/netpanel/pkg/plugin"
	"go.uber.org/zap/zaptest"
)

func TestBus_PublishToTopic(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var got []plugin.Event
	bus.Subscribe(TopicHostsSnapshot, func(_ context.Context, e plugin.Event) {
		got = append(got, e)
	})
	bus.Subscribe(TopicWakeSent, func(context.Context, plugin.Event) {
		t.Error("handler for other topic called")
	})

	if err := bus.Publish(context.Background(), plugin.Event{Topic: TopicHostsSnapshot, Source: "collector", Payload: 3}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if got[0].Payload != 3 {
		t.Errorf("Payload = %v, want 3", got[0].Payload)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	unsub := bus.Subscribe(TopicWakeSent, func(context.Context, plugin.Event) { calls++ })
	_ = bus.Publish(context.Background(), plugin.Event{Topic: TopicWakeSent})
	unsub()
	_ = bus.Publish(context.Background(), plugin.Event{Topic: TopicWakeSent})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var topics []string
	unsub := bus.SubscribeAll(func(_ context.Context, e plugin.Event) { topics = append(topics, e.Topic) })
	defer unsub()

	_ = bus.Publish(context.Background(), plugin.Event{Topic: TopicHostsSnapshot})
	_ = bus.Publish(context.Background(), plugin.Event{Topic: TopicWakeSent})

	if len(topics) != 2 || topics[0] != TopicHostsSnapshot || topics[1] != TopicWakeSent {
		t.Errorf("topics = %v", topics)
	}
}

func TestBus_HandlerPanicRecovered(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	reached := false
	bus.Subscribe(TopicHostsSnapshot, func(context.Context, plugin.Event) { panic("boom") })
	bus.Subscribe(TopicHostsSnapshot, func(context.Context, plugin.Event) { reached = true })

	if err := bus.Publish(context.Background(), plugin.Event{Topic: TopicHostsSnapshot}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !reached {
		t.Error("second handler not reached after panic")
	}
}

func TestBus_PublishAsync(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var wg sync.WaitGroup
	wg.Add(2)
	bus.Subscribe(TopicHostsSnapshot, func(context.Context, plugin.Event) { wg.Done() })
	bus.SubscribeAll(func(context.Context, plugin.Event) { wg.Done() })

	bus.PublishAsync(context.Background(), plugin.Event{Topic: TopicHostsSnapshot})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handlers not called")
	}
}

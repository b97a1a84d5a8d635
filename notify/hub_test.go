package notify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubFanOut(t *testing.T) {
	h := NewHub(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := h.Subscribe(ctx)
	b := h.Subscribe(ctx)
	assert.Equal(t, 2, h.Subscribers())

	h.Publish(ctx, Event{Type: EventNewSubscription, Payload: map[string]any{"count": 1}})

	assert.Equal(t, EventNewSubscription, receive(t, a).Type)
	e := receive(t, b)
	assert.Equal(t, EventNewSubscription, e.Type)
	assert.False(t, e.At.IsZero())
}

func TestHubUnsubscribeOnCancel(t *testing.T) {
	h := NewHub(1)
	ctx, cancel := context.WithCancel(context.Background())
	ch := h.Subscribe(ctx)

	cancel()

	require.Eventually(t, func() bool { return h.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-ch
	assert.False(t, ok)

	// publishing with no subscribers is fine
	h.Publish(context.Background(), Event{Type: EventNewConsultation})
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = h.Subscribe(ctx)

	h.Publish(ctx, Event{Type: "a"})
	h.Publish(ctx, Event{Type: "b"})

	assert.Equal(t, int64(1), h.Dropped())
}

type fakeReader struct {
	msgs chan kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-r.msgs:
		return m, nil
	}
}

func (r *fakeReader) Close() error { return nil }

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaBridge(t *testing.T) {
	hub := NewHub(4)
	reader := &fakeReader{msgs: make(chan kafka.Message, 2)}
	writer := &fakeWriter{}
	bridge := newKafkaBridge(hub, reader, writer)

	ctx, cancel := context.WithCancel(context.Background())
	events := hub.Subscribe(ctx)
	bridge.Start(ctx)

	bridge.Publish(ctx, Event{Type: EventNewInterested})
	local := receive(t, events)
	assert.Equal(t, EventNewInterested, local.Type)

	writer.mu.Lock()
	require.Len(t, writer.msgs, 1)
	sent := writer.msgs[0]
	writer.mu.Unlock()

	// our own event coming back from the topic is ignored
	reader.msgs <- sent
	// an event from another instance reaches local subscribers
	remote, err := json.Marshal(Event{Type: EventConsultationRead, Origin: "other"})
	require.NoError(t, err)
	reader.msgs <- kafka.Message{Value: remote}

	assert.Equal(t, EventConsultationRead, receive(t, events).Type)

	cancel()
	require.NoError(t, bridge.Stop())
}

func TestKafkaClientConfig(t *testing.T) {
	cfg := KafkaConfig{Brokers: []string{"k1:9092", "k2:9092"}, Topic: "notifications", GroupID: "admin-api"}

	rc := readerConfig(cfg)
	assert.Equal(t, kafka.LastOffset, rc.StartOffset, "a new group must not replay the topic history")
	assert.Equal(t, cfg.Brokers, rc.Brokers)
	assert.Equal(t, "notifications", rc.Topic)
	assert.True(t, strings.HasPrefix(rc.GroupID, "admin-api-"))
	assert.NotEqual(t, rc.GroupID, readerConfig(cfg).GroupID)

	w := newWriter(cfg)
	assert.True(t, w.Async, "publishing must not block the request")
	assert.NotNil(t, w.Completion)
	assert.Equal(t, "notifications", w.Topic)
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaReader is the subset of *kafka.Reader the bridge uses.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaBridge publishes events to the local hub and to a Kafka topic, and
// replays events produced by other instances into the local hub.
type KafkaBridge struct {
	local    *Hub
	reader   KafkaReader
	writer   KafkaWriter
	instance string
	wg       sync.WaitGroup
}

func NewKafkaBridge(local *Hub, cfg KafkaConfig) *KafkaBridge {
	return newKafkaBridge(local, kafka.NewReader(readerConfig(cfg)), newWriter(cfg))
}

// readerConfig joins a fresh group per boot and starts at the end of the topic:
// only events published while the instance is up are relayed.
func readerConfig(cfg KafkaConfig) kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID + "-" + uuid.NewString(),
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	}
}

// newWriter is async so publishing never waits on the broker; delivery
// failures are logged from the completion callback.
func newWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				slog.Error("notify: write events to kafka", "count", len(msgs), "error", err)
			}
		},
	}
}

func newKafkaBridge(local *Hub, r KafkaReader, w KafkaWriter) *KafkaBridge {
	return &KafkaBridge{
		local:    local,
		reader:   r,
		writer:   w,
		instance: uuid.NewString(),
	}
}

func (b *KafkaBridge) Publish(ctx context.Context, e Event) {
	e.Origin = b.instance
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.local.Publish(ctx, e)

	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("notify: encode event", "type", e.Type, "error", err)
		return
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Type), Value: data}); err != nil {
		slog.Error("notify: write event to kafka", "type", e.Type, "error", err)
	}
}

// Start runs the consumer loop until ctx is cancelled.
func (b *KafkaBridge) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		slog.Info("notify: kafka consumer started")

		for {
			msg, err := b.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					slog.Info("notify: kafka consumer stopped")
					return
				}
				slog.Error("notify: read message", "error", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			if err := b.replay(ctx, msg); err != nil {
				slog.Warn("notify: skip message", "offset", msg.Offset, "error", err)
			}
		}
	}()
}

func (b *KafkaBridge) replay(ctx context.Context, msg kafka.Message) error {
	var e Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if e.Origin == b.instance {
		return nil
	}
	b.local.Publish(ctx, e)
	return nil
}

// Stop waits for the consumer loop and closes the Kafka clients.
func (b *KafkaBridge) Stop() error {
	b.wg.Wait()
	return errors.Join(b.reader.Close(), b.writer.Close())
}

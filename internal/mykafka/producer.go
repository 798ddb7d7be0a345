package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
	TopicUsers    = "user_events"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

type Message struct {
	Topic string
	Key   string
	Event map[string]any
}

// Recorder keeps published events in memory, decoded the way a consumer would see them.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Topic: topic, Key: key, Event: decoded})
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Of returns the events published to topic with the given type field.
func (r *Recorder) Of(topic, eventType string) []Message {
	var out []Message
	for _, m := range r.Messages() {
		if m.Topic == topic && m.Event["type"] == eventType {
			out = append(out, m)
		}
	}
	return out
}

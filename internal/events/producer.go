package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes reservation lifecycle events. Writes are buffered through
// an inbox goroutine so callers never block on the broker; Close flushes the
// remaining messages before the writer shuts down.
type Producer struct {
	w           *kafkago.Writer
	inbox       chan kafkago.Message
	closeCh     chan struct{}
	serviceName string
}

func NewProducer(brokers []string, serviceName string, buf int) *Producer {
	p := &Producer{
		w: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
		},
		inbox:       make(chan kafkago.Message, buf),
		closeCh:     make(chan struct{}),
		serviceName: serviceName,
	}

	go p.loop()

	return p
}

func (p *Producer) loop() {
	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			zap.L().Error("failed to publish event",
				zap.String("topic", m.Topic),
				zap.Error(err),
			)
		}
	}
	_ = p.w.Close()
	close(p.closeCh)
}

// Publish wraps the payload in an envelope and enqueues it, keyed by orderID
// so all events for one order land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic, eventType, orderID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("failed to marshal event payload", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	env := Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.serviceName,
		Payload:      raw,
	}

	value, err := json.Marshal(env)
	if err != nil {
		zap.L().Error("failed to marshal event envelope", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(orderID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafkago.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}

	select {
	case p.inbox <- msg:
	case <-ctx.Done():
	}
}

// Close stops the inbox and waits until buffered messages are flushed.
func (p *Producer) Close() {
	close(p.inbox)
	<-p.closeCh
}

package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Envelope is the wire form of a domain event on the bus.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeEvent wraps a domain event in an Envelope.
func EncodeEvent(ev model.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.EventType(), err)
	}
	return json.Marshal(Envelope{Type: ev.EventType(), Payload: payload})
}

// KafkaPublisher fans domain events out to a Kafka topic for external
// consumers (analytics, accounting). Messages are keyed by aggregate id and
// hash-balanced, so events of one product or sale stay ordered on a single
// partition. Writes go through a circuit breaker so a broker outage fails fast.
type KafkaPublisher struct {
	writer *kafka.Writer
	cb     *CircuitBreaker
}

// NewKafkaPublisher accepts a comma separated broker list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
		},
		cb: NewCircuitBreaker(DefaultCBConfig()),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...model.DomainEvent) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		msg, err := eventMessage(ev)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	err := p.cb.Execute(func() error { return p.writer.WriteMessages(ctx, msgs...) })
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	log.Debug().Int("events", len(msgs)).Str("topic", p.writer.Topic).Msg("events published")
	return nil
}

func eventMessage(ev model.DomainEvent) (kafka.Message, error) {
	body, err := EncodeEvent(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:     []byte(ev.AggregateID().String()),
		Value:   body,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(ev.EventType())}},
	}, nil
}

// BreakerState is reported by the health endpoint.
func (p *KafkaPublisher) BreakerState() CBState { return p.cb.State() }

func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

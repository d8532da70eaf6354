// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types
const (
	OrderCreated = "order.created"
	OrderUpdated = "order.updated"
	OrderDeleted = "order.deleted"
	MatchSaved   = "match.saved"
	MatchUpdated = "match.updated"
	MatchDeleted = "match.deleted"
)

// Event is a change notification for one record. Data holds the record
// after the write, or the changed fields for updates; deletes carry none.
type Event struct {
	Type     string      `json:"type"`
	ID       string      `json:"id"`
	Data     interface{} `json:"data,omitempty"`
	TsUnixMs int64       `json:"tsUnixMs"`
}

// Publisher delivers events somewhere outside the process
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// encode stamps e and returns the message key and JSON value
func encode(e Event, now time.Time) ([]byte, []byte, error) {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = now.UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s event: %w", e.Type, err)
	}
	return []byte(e.ID), b, nil
}

// KafkaPublisher writes events to a single topic keyed by record id, so
// every change to one record lands on the same partition
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	key, value, err := encode(e, time.Now())
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// String describes the destination without credentials
func (p *KafkaPublisher) String() string {
	return fmt.Sprintf("kafka %s topic=%s", p.w.Addr.String(), p.w.Topic)
}

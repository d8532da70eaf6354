// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEncode(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	key, value, err := encode(Event{Type: OrderCreated, ID: "o1", Data: map[string]string{"status": "pending"}}, now)
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	if string(key) != "o1" {
		t.Errorf("key = %q, want o1", key)
	}

	var got struct {
		Type     string            `json:"type"`
		ID       string            `json:"id"`
		Data     map[string]string `json:"data"`
		TsUnixMs int64             `json:"tsUnixMs"`
	}
	if err := json.Unmarshal(value, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != OrderCreated || got.ID != "o1" || got.Data["status"] != "pending" {
		t.Errorf("decoded = %+v", got)
	}
	if got.TsUnixMs != 1700000000123 {
		t.Errorf("TsUnixMs = %d", got.TsUnixMs)
	}
}

func TestEncode_KeepsTimestampAndOmitsEmptyData(t *testing.T) {
	_, value, err := encode(Event{Type: MatchDeleted, ID: "m1", TsUnixMs: 42}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if got := string(value); got != `{"type":"match.deleted","id":"m1","tsUnixMs":42}` {
		t.Errorf("value = %s", got)
	}
}

func TestEncode_Unencodable(t *testing.T) {
	if _, _, err := encode(Event{Type: OrderUpdated, Data: make(chan int)}, time.Now()); err == nil {
		t.Error("expected error for unencodable data")
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), Event{Type: OrderDeleted}); err != nil {
		t.Errorf("Nop.Publish() error = %v", err)
	}
}

func TestKafkaPublisher_String(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "betdesk.events")
	defer p.Close()

	if got := p.String(); got != "kafka localhost:9092 topic=betdesk.events" {
		t.Errorf("String() = %q", got)
	}
}

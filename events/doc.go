// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes change notifications for matches and orders.

Handlers publish after the store write has succeeded:

	pub.Publish(ctx, events.Event{Type: events.OrderCreated, ID: o.ID, Data: o})

A failed publish never undoes the write; callers log it and move on.

KafkaPublisher sends JSON messages keyed by record id. Nop is used when no
brokers are configured.
*/
package events

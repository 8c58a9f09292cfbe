// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package websocket

import (
	"bytes"
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kizuna/internal/logging"
)

// Publisher polls a snapshot function and broadcasts the result through a
// hub. Unchanged snapshots are not re-sent, except when new clients have
// connected since the last broadcast. Nothing is polled while no client is
// connected. Publisher implements suture.Service.
type Publisher struct {
	hub         *Hub
	messageType string
	interval    time.Duration
	snapshot    func() interface{}

	// Owned by Serve.
	last        []byte
	lastClients int
}

// NewPublisher creates a publisher that sends snapshot() as messageType
// every interval.
func NewPublisher(hub *Hub, messageType string, interval time.Duration, snapshot func() interface{}) *Publisher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Publisher{
		hub:         hub,
		messageType: messageType,
		interval:    interval,
		snapshot:    snapshot,
	}
}

// String implements fmt.Stringer for suture logging.
func (p *Publisher) String() string {
	return "websocket-publisher-" + p.messageType
}

// Serve publishes until ctx ends.
func (p *Publisher) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logging.Debug().
		Str("message_type", p.messageType).
		Dur("interval", p.interval).
		Msg("websocket publisher started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.publish()
		}
	}
}

// publish broadcasts the current snapshot if anyone should receive it.
// It reports whether a message was queued.
func (p *Publisher) publish() bool {
	clients := p.hub.ClientCount()
	if clients == 0 {
		p.last, p.lastClients = nil, 0
		return false
	}

	data, err := json.Marshal(p.snapshot())
	if err != nil {
		logging.Warn().Err(err).Str("message_type", p.messageType).Msg("failed to encode snapshot")
		return false
	}

	if clients <= p.lastClients && bytes.Equal(data, p.last) {
		p.lastClients = clients
		return false
	}
	if !p.hub.Broadcast(p.messageType, json.RawMessage(data)) {
		return false
	}
	p.last, p.lastClients = data, clients
	return true
}

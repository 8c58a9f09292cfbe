// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package websocket pushes live request queue state to browser clients.

A front-end that has just submitted a recommendation request can subscribe to
GET /api/v1/queue/ws and watch the queue drain instead of staring at a
spinner for the tens of seconds a cold request can take.

Key Components:

  - Hub: registry of connected clients that fans messages out to them
  - Client: one connection, with a read pump and a write pump goroutine
  - Publisher: polls a snapshot function and broadcasts changes

Hub and Publisher implement suture.Service and run in the worker layer of
the supervisor tree. The API handler upgrades the connection with
gorilla/websocket and registers the client with Hub.Add.

Message Format:

Every frame is a JSON text message:

	{"type":"queue_stats","data":{"queue":{"name":"jikan","pending":3,...},"delay_ms":1000}}

Clients may send {"type":"ping"} and receive {"type":"pong"}. Protocol-level
pings are also sent every 54 seconds; a client that does not answer within
60 seconds is disconnected.

Backpressure:

A client whose 16-message send buffer is full is dropped. The hub's own
broadcast buffer holds 256 messages; Broadcast returns false and drops the
message when it is full.

Usage:

	hub := websocket.NewHub()
	pub := websocket.NewPublisher(hub, websocket.MessageTypeQueueStats, time.Second,
	    func() interface{} { return handler.QueueStatus() })
	tree.AddWorkerService(hub)
	tree.AddWorkerService(pub)
*/
package websocket

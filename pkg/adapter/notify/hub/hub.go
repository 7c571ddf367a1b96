// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package hub provides an in-process fan out of the drone change
// notifications. A Hub implements the dronesuc.Publisher interface and
// copies each published event into the buffered channels of all of its
// current subscribers. Publishing never blocks: a subscriber whose
// buffer is full is dropped and its channel is closed, so it may
// notice that some events were missed and subscribe again.
package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
)

// DefaultBuffer is the subscription buffer size which is used when
// a non-positive size is passed to Subscribe.
const DefaultBuffer = 64

// Hub keeps the set of subscriptions.
// The zero value is not usable, use New instead.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*Subscription
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[uuid.UUID]*Subscription)}
}

// Subscription is a registered listener of a Hub.
type Subscription struct {
	// ID identifies this subscription in the logs.
	ID uuid.UUID

	c      chan model.Event
	hub    *Hub
	closed bool // guarded by hub.mu
}

// C returns the channel which receives the published events. It is
// closed when the subscription is closed or dropped.
func (s *Subscription) C() <-chan model.Event {
	return s.c
}

// Close unregisters s from its hub and closes its channel. It may be
// called multiple times.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.remove(s)
}

// Subscribe registers a new subscription with a buffer of the given
// size. Caller must Close it when it is not needed anymore.
func (h *Hub) Subscribe(ctx context.Context, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &Subscription{
		ID:  uuid.New(),
		c:   make(chan model.Event, buffer),
		hub: h,
	}
	h.mu.Lock()
	h.subs[s.ID] = s
	n := len(h.subs)
	h.mu.Unlock()
	log.Debug(
		ctx, "subscribed",
		slog.String("subscription", s.ID.String()),
		slog.Int("subscribers", n),
	)
	return s
}

// Len returns the number of current subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers e to all subscribers. Those subscribers which have
// no free buffer space are dropped.
func (h *Hub) Publish(ctx context.Context, e model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		select {
		case s.c <- e:
		default:
			h.remove(s)
			log.Warn(
				ctx, "dropped slow subscriber",
				slog.String("subscription", s.ID.String()),
				log.Event(e),
			)
		}
	}
}

// remove must be called while h.mu is held.
func (h *Hub) remove(s *Subscription) {
	if s.closed {
		return
	}
	s.closed = true
	delete(h.subs, s.ID)
	close(s.c)
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package eventsrs realizes the events resource which streams the
// drone change notifications as Server-Sent Events. Each event is
// named after its notification (e.g., DroneRented) and carries its
// JSON encoded fields as the data line:
//
//	event:DroneRented
//	data:{"id":1,"holder":"0xabc..."}
//
// Idle streams receive a comment line periodically, so proxies do not
// close them. A client which does not consume its events fast enough
// is disconnected and may reconnect and list the drones again.
package eventsrs

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/momeni/drone-rental/pkg/adapter/notify/hub"
	"github.com/momeni/drone-rental/pkg/core/log"
)

type resource struct {
	hub       *hub.Hub
	buffer    int
	heartbeat time.Duration
}

// Register instantiates a resource which subscribes to the h hub for
// each GET request to /api/drweb/v1/events with a buffer of the given
// size and sends a heartbeat comment after each heartbeat interval.
func Register(
	r *gin.RouterGroup, h *hub.Hub, buffer int, heartbeat time.Duration,
) {
	rs := &resource{hub: h, buffer: buffer, heartbeat: heartbeat}
	r.GET("events", rs.Stream)
}

func (rs *resource) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	sub := rs.hub.Subscribe(ctx, rs.buffer)
	defer sub.Close()
	subAttr := slog.String("subscription", sub.ID.String())
	ticker := time.NewTicker(rs.heartbeat)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			_, err := io.WriteString(w, ": heartbeat\n\n")
			return err == nil
		case e, ok := <-sub.C():
			if !ok {
				log.Warn(ctx, "events stream is dropped", subAttr)
				return false
			}
			data, err := json.Marshal(e)
			if err != nil {
				log.Error(ctx, "marshalling event", subAttr, log.Err("error", err))
				return false
			}
			c.SSEvent(e.Name(), string(data))
			return true
		}
	})
}

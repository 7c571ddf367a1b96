// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/drone-rental/pkg/adapter/config"
	"github.com/momeni/drone-rental/pkg/adapter/notify/hub"
	drgin "github.com/momeni/drone-rental/pkg/adapter/restful/gin"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/dronesrs"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/eventsrs"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/repo"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
)

// BasePath is the common prefix of all REST APIs.
const BasePath = "/api/drweb/v1"

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like dronesuc and each repository package is named like dronesrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like dronesrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// The change notifications are logged and fanned out to the events
// resource subscribers by a new hub which is returned too.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) (*hub.Hub, error) {
	h := hub.New()
	logEvents := dronesuc.PublisherFunc(
		func(ctx context.Context, ev model.Event) {
			log.Debug(ctx, "published", log.Event(ev))
		},
	)
	drones, err := c.NewDronesUseCase(p, logEvents, h)
	if err != nil {
		return nil, fmt.Errorf("creating drones use case: %w", err)
	}
	log.Info(
		ctx, "drones use case is ready",
		slog.String("owner", drones.AccessController().Owner().String()),
	)
	r := e.Group(BasePath, drgin.Identity())
	dronesrs.Register(r, drones)
	eventsrs.Register(
		r, h, *c.Events.Buffer, time.Duration(*c.Events.Heartbeat),
	)
	return h, nil
}

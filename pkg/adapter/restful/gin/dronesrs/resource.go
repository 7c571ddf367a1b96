// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dronesrs realizes the drones resource, allowing the drones
// manipulation REST APIs to be accepted and delegated to the
// drones use cases respectively.
package dronesrs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	drgin "github.com/momeni/drone-rental/pkg/adapter/restful/gin"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
)

type resource struct {
	drones *dronesuc.UseCase
}

// Register instantiates a resource adapting the drones use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/drweb/v1/drones
//     in order to add a drone (by the fleet owner),
//  2. GET request to /api/drweb/v1/drones
//     in order to list all drones,
//  3. GET request to /api/drweb/v1/drones/:id
//     in order to check availability of a drone, and
//  4. PATCH request to /api/drweb/v1/drones/:id
//     in order to rent or return a drone.
func Register(r *gin.RouterGroup, drones *dronesuc.UseCase) {
	rs := &resource{drones: drones}
	r.POST("drones", rs.AddDrone)
	r.GET("drones", rs.ListDrones)
	r.GET("drones/:id", rs.CheckDrone)
	r.PATCH("drones/:id", rs.UpdateDrone)
}

func (rs *resource) AddDrone(c *gin.Context) {
	req := rs.DserAddDroneReq(c)
	if req == nil {
		return
	}
	ctx := c.Request.Context()
	id, err := rs.drones.AddDrone(ctx, drgin.Caller(c), req.Model)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, addDroneResp{ID: id})
}

func (rs *resource) ListDrones(c *gin.Context) {
	ds, err := rs.drones.ListDrones(c.Request.Context(), drgin.Caller(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerDrones(ds))
}

func (rs *resource) CheckDrone(c *gin.Context) {
	id, ok := rs.DserDroneID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	a, err := rs.drones.CheckDroneAvailability(ctx, drgin.Caller(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, availabilityResp{
		ID:       id,
		Model:    a.Model,
		IsRented: a.IsRented,
	})
}

func (rs *resource) UpdateDrone(c *gin.Context) {
	req := rs.DserUpdateDroneReq(c)
	if req == nil {
		return
	}
	err := rs.update(c.Request.Context(), drgin.Caller(c), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResp{ID: req.ID, IsRented: req.Op == opRent})
}

// update runs the use case which realizes the req.Op operation.
func (rs *resource) update(
	ctx context.Context, caller model.Identity, req *updateDroneReq,
) error {
	switch req.Op {
	case opRent:
		return rs.drones.RentDrone(ctx, caller, req.ID)
	case opReturn:
		return rs.drones.ReturnDrone(ctx, caller, req.ID)
	default:
		return cerr.BadRequest(fmt.Errorf("unsupported op: %q", req.Op))
	}
}

package dronesrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/drone-rental/pkg/core/model"
)

const (
	opRent   = "rent"
	opReturn = "return"
)

type addDroneReq struct {
	Model string `form:"model" binding:"required"`
}

type droneURI struct {
	ID string `uri:"id" binding:"required"`
}

type rawUpdateDroneReq struct {
	Op string `form:"op" binding:"required,oneof=rent return"`
}

type updateDroneReq struct {
	ID model.DroneID
	Op string
}

type addDroneResp struct {
	ID model.DroneID `json:"id"`
}

type availabilityResp struct {
	ID       model.DroneID `json:"id"`
	Model    string        `json:"model"`
	IsRented bool          `json:"is_rented"`
}

type statusResp struct {
	ID       model.DroneID `json:"id"`
	IsRented bool          `json:"is_rented"`
}

// DroneResp is the serialized form of a drone in the list response.
type DroneResp struct {
	ID       model.DroneID `json:"id"`
	Model    string        `json:"model"`
	IsRented bool          `json:"is_rented"`
	Holder   string        `json:"holder,omitempty"`
}

// SerDrones converts ds to their serialized form.
func SerDrones(ds []model.Drone) []DroneResp {
	resp := make([]DroneResp, 0, len(ds))
	for _, d := range ds {
		h, rented := d.Status.Holder()
		resp = append(resp, DroneResp{
			ID:       d.ID,
			Model:    d.Model,
			IsRented: rented,
			Holder:   h.String(),
		})
	}
	return resp
}

func (rs *resource) DserAddDroneReq(c *gin.Context) *addDroneReq {
	req := &addDroneReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	return req
}

func parseDroneID(s string, errs *map[string][]string) (model.DroneID, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	ok := serdser.Assert(
		errs, err == nil && id > 0, "id",
		"Path param id is not a positive integer.",
	)
	return model.DroneID(id), ok
}

func (rs *resource) DserDroneID(c *gin.Context) (model.DroneID, bool) {
	req := &droneURI{}
	if ok := serdser.Bind(c, req, nil); !ok {
		return 0, false
	}
	var errs map[string][]string
	id, ok := parseDroneID(req.ID, &errs)
	if !ok {
		c.JSON(http.StatusBadRequest, errs)
	}
	return id, ok
}

func (rs *resource) DserUpdateDroneReq(c *gin.Context) *updateDroneReq {
	id, ok := rs.DserDroneID(c)
	if !ok {
		return nil
	}
	req := &rawUpdateDroneReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	return &updateDroneReq{ID: id, Op: req.Op}
}

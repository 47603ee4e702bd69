// README: ETS driver handlers (registration, location reports).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/driver"
	"ummana/internal/types"
)

type DriverHandler struct {
	drivers *driver.Service
}

func NewDriverHandler(svc *driver.Service) *DriverHandler {
	return &DriverHandler{drivers: svc}
}

type registerDriverReq struct {
	FirstName              string   `json:"firstName"`
	LastName               string   `json:"lastName"`
	PhoneNumber            string   `json:"phoneNumber"`
	VehicleType            string   `json:"vehicleType"`
	AssignedCatchmentAreas []string `json:"assignedCatchmentAreas"`
	PushToken              *string  `json:"pushToken"`
}

func (h *DriverHandler) Register(c *gin.Context) {
	var req registerDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.drivers.Register(c.Request.Context(), driver.RegisterCommand{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PhoneNumber:            req.PhoneNumber,
		VehicleType:            types.VehicleType(req.VehicleType),
		AssignedCatchmentAreas: toIDs(req.AssignedCatchmentAreas),
		PushToken:              req.PushToken,
	})
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.drivers.List(c.Request.Context())
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func (h *DriverHandler) Get(c *gin.Context) {
	d, err := h.drivers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type updateDriverReq struct {
	FirstName              *string  `json:"firstName"`
	LastName               *string  `json:"lastName"`
	PhoneNumber            *string  `json:"phoneNumber"`
	VehicleType            *string  `json:"vehicleType"`
	IsAvailable            *bool    `json:"isAvailable"`
	AssignedCatchmentAreas []string `json:"assignedCatchmentAreas"`
	PushToken              *string  `json:"pushToken"`
}

func (h *DriverHandler) Update(c *gin.Context) {
	var req updateDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := driver.UpdateCommand{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		IsAvailable: req.IsAvailable,
		PushToken:   req.PushToken,
	}
	if req.VehicleType != nil {
		vt := types.VehicleType(*req.VehicleType)
		cmd.VehicleType = &vt
	}
	if req.AssignedCatchmentAreas != nil {
		cmd.AssignedCatchmentAreas = toIDs(req.AssignedCatchmentAreas)
	}
	if err := h.drivers.Update(c.Request.Context(), types.ID(c.Param("id")), cmd); err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *DriverHandler) Delete(c *gin.Context) {
	if err := h.drivers.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type updateLocationReq struct {
	DriverID  string     `json:"driverId"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Source    string     `json:"source"`
	Accuracy  *float64   `json:"accuracy"`
	Immediate bool       `json:"immediate"`
	Timestamp *time.Time `json:"timestamp"`
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req updateLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driverId is required")
		return
	}
	result, err := h.drivers.ReportLocation(c.Request.Context(), types.ID(req.DriverID), driver.LocationReport{
		Location:  types.Point{Lat: req.Lat, Lng: req.Lng},
		Source:    req.Source,
		Accuracy:  req.Accuracy,
		Immediate: req.Immediate,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type requestLocationReq struct {
	DriverID string `json:"driverId"`
}

func (h *DriverHandler) RequestLocation(c *gin.Context) {
	var req requestLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driverId is required")
		return
	}
	if err := h.drivers.RequestLocationUpdate(c.Request.Context(), types.ID(req.DriverID)); err != nil {
		writeDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": true})
}

// README: ride request handlers (dispatch, responses, lifecycle, queries).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/ride"
	"ummana/internal/modules/triage"
	"ummana/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

type requestRideReq struct {
	ChipsAgentID string   `json:"chipsAgentId"`
	Symptoms     []string `json:"symptoms"`
	PickupLat    float64  `json:"pickupLat"`
	PickupLng    float64  `json:"pickupLng"`
	IsPregnant   bool     `json:"isPregnant"`
	IsPostpartum bool     `json:"isPostpartum"`
	IsUrgent     bool     `json:"isUrgent"`
}

func (h *RideHandler) RequestRide(c *gin.Context) {
	var req requestRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ChipsAgentID == "" || len(req.Symptoms) == 0 {
		writeError(c, http.StatusBadRequest, "chipsAgentId and symptoms are required")
		return
	}
	result, err := h.rides.Dispatch(c.Request.Context(), ride.DispatchCommand{
		ChipsAgentID: types.ID(req.ChipsAgentID),
		Symptoms:     req.Symptoms,
		Pickup:       types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Patient: triage.PatientContext{
			IsPregnant:   req.IsPregnant,
			IsPostpartum: req.IsPostpartum,
			IsUrgent:     req.IsUrgent,
		},
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type respondReq struct {
	DriverID string `json:"driverId"`
	RideID   string `json:"rideId"`
	Response string `json:"response"`
}

func (h *RideHandler) Respond(c *gin.Context) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Response != "accept" && req.Response != "decline" {
		writeError(c, http.StatusBadRequest, "response must be accept or decline")
		return
	}
	r, err := h.rides.Respond(c.Request.Context(),
		types.ID(req.RideID), types.ID(req.DriverID), req.Response == "accept")
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": r.Status, "ride": r})
}

type updateRequestReq struct {
	Status string `json:"status"`
}

func (h *RideHandler) UpdateRequest(c *gin.Context) {
	var req updateRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.UpdateStatus(c.Request.Context(),
		types.ID(c.Param("id")), ride.Status(req.Status))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": r.Status, "ride": r})
}

func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RideHandler) ActiveByAgent(c *gin.Context) {
	rides, err := h.rides.ActiveByAgent(c.Request.Context(), types.ID(c.Param("agentId")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

func (h *RideHandler) HistoryByAgent(c *gin.Context) {
	rides, err := h.rides.HistoryByAgent(c.Request.Context(), types.ID(c.Param("agentId")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

func (h *RideHandler) PendingForDriver(c *gin.Context) {
	rides, err := h.rides.PendingForDriver(c.Request.Context(), types.ID(c.Param("driverId")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

func (h *RideHandler) ActiveForDriver(c *gin.Context) {
	rides, err := h.rides.ActiveForDriver(c.Request.Context(), types.ID(c.Param("driverId")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

func (h *RideHandler) HistoryByDriver(c *gin.Context) {
	rides, err := h.rides.HistoryByDriver(c.Request.Context(), types.ID(c.Param("driverId")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

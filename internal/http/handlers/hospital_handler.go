// README: hospital registry handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/hospital"
	"ummana/internal/types"
)

type HospitalHandler struct {
	hospitals *hospital.Service
}

func NewHospitalHandler(svc *hospital.Service) *HospitalHandler {
	return &HospitalHandler{hospitals: svc}
}

type registerHospitalReq struct {
	Name         string                `json:"name"`
	FacilityType string                `json:"facilityType"`
	Lat          float64               `json:"lat"`
	Lng          float64               `json:"lng"`
	Capabilities hospital.Capabilities `json:"capabilities"`
}

func (h *HospitalHandler) Register(c *gin.Context) {
	var req registerHospitalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.hospitals.Register(c.Request.Context(), hospital.RegisterCommand{
		Name:         req.Name,
		FacilityType: req.FacilityType,
		Location:     types.Point{Lat: req.Lat, Lng: req.Lng},
		Capabilities: req.Capabilities,
	})
	if err != nil {
		writeHospitalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *HospitalHandler) List(c *gin.Context) {
	hospitals, err := h.hospitals.List(c.Request.Context())
	if err != nil {
		writeHospitalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hospitals": hospitals})
}

func (h *HospitalHandler) Get(c *gin.Context) {
	hosp, err := h.hospitals.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeHospitalError(c, err)
		return
	}
	c.JSON(http.StatusOK, hosp)
}

type updateHospitalReq struct {
	Name         *string                `json:"name"`
	FacilityType *string                `json:"facilityType"`
	Lat          *float64               `json:"lat"`
	Lng          *float64               `json:"lng"`
	Capabilities *hospital.Capabilities `json:"capabilities"`
}

func (h *HospitalHandler) Update(c *gin.Context) {
	var req updateHospitalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := hospital.UpdateCommand{
		Name:         req.Name,
		FacilityType: req.FacilityType,
		Capabilities: req.Capabilities,
	}
	if req.Lat != nil && req.Lng != nil {
		cmd.Location = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}
	if err := h.hospitals.Update(c.Request.Context(), types.ID(c.Param("id")), cmd); err != nil {
		writeHospitalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *HospitalHandler) Delete(c *gin.Context) {
	if err := h.hospitals.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeHospitalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

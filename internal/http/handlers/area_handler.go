// README: catchment area handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/area"
	"ummana/internal/types"
)

type AreaHandler struct {
	areas *area.Service
}

func NewAreaHandler(svc *area.Service) *AreaHandler {
	return &AreaHandler{areas: svc}
}

type areaReq struct {
	Name       string  `json:"name"`
	Settlement string  `json:"settlement"`
	Ward       string  `json:"ward"`
	LGA        string  `json:"lga"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

func (h *AreaHandler) Register(c *gin.Context) {
	var req areaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.areas.Register(c.Request.Context(), area.RegisterCommand{
		Name:       req.Name,
		Settlement: req.Settlement,
		Ward:       req.Ward,
		LGA:        req.LGA,
		Location:   types.Point{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		writeAreaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *AreaHandler) List(c *gin.Context) {
	areas, err := h.areas.List(c.Request.Context())
	if err != nil {
		writeAreaError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catchmentAreas": areas})
}

func (h *AreaHandler) Update(c *gin.Context) {
	var req areaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.areas.Update(c.Request.Context(), types.ID(c.Param("id")), area.RegisterCommand{
		Name:       req.Name,
		Settlement: req.Settlement,
		Ward:       req.Ward,
		LGA:        req.LGA,
		Location:   types.Point{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		writeAreaError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *AreaHandler) Delete(c *gin.Context) {
	if err := h.areas.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeAreaError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

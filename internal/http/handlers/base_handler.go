// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/agent"
	"ummana/internal/modules/area"
	"ummana/internal/modules/driver"
	"ummana/internal/modules/hospital"
	"ummana/internal/modules/matching"
	"ummana/internal/modules/ride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeAreaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, area.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, area.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, area.ErrDuplicate), errors.Is(err, area.ErrInUse):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeAgentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, agent.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, agent.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, agent.ErrDuplicatePhone), errors.Is(err, agent.ErrHasActiveRides):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeDriverError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, driver.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, driver.ErrNotFound), errors.Is(err, driver.ErrNoPushToken):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, driver.ErrDuplicatePhone), errors.Is(err, driver.ErrHasActiveRides):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeHospitalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hospital.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, hospital.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, hospital.ErrDuplicateLocation):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotCandidate):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ride.ErrNotFound),
		errors.Is(err, agent.ErrNotFound),
		errors.Is(err, driver.ErrNotFound),
		errors.Is(err, matching.ErrNoAvailableDriver),
		errors.Is(err, hospital.ErrNoSuitableHospital):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

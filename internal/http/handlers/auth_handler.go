// README: dev login handler for the CHIPS agent and driver apps.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/agent"
	"ummana/internal/modules/driver"
)

type AuthHandler struct {
	agents  *agent.Service
	drivers *driver.Service
}

func NewAuthHandler(agents *agent.Service, drivers *driver.Service) *AuthHandler {
	return &AuthHandler{agents: agents, drivers: drivers}
}

type loginReq struct {
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Login matches a caller by phone number and returns a dev token. CHIPS
// agents are looked up by phone plus generated username, drivers by phone
// alone. There is no real credential check yet; see the auth middleware stub.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PhoneNumber == "" {
		writeError(c, http.StatusBadRequest, "phoneNumber is required")
		return
	}
	if req.Role == "driver" {
		d, err := h.drivers.GetByPhone(c.Request.Context(), req.PhoneNumber)
		if err != nil {
			writeDriverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":  "dev-token-" + string(d.ID),
			"driver": d,
		})
		return
	}
	if req.Username == "" {
		writeError(c, http.StatusBadRequest, "username is required")
		return
	}
	a, err := h.agents.GetByCredentials(c.Request.Context(), req.PhoneNumber, req.Username)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": "dev-token-" + string(a.ID),
		"agent": a,
	})
}

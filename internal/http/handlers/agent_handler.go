// README: CHIPS agent handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/modules/agent"
	"ummana/internal/types"
)

type AgentHandler struct {
	agents *agent.Service
}

func NewAgentHandler(svc *agent.Service) *AgentHandler {
	return &AgentHandler{agents: svc}
}

type registerAgentReq struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	PhoneNumber      string   `json:"phoneNumber"`
	CatchmentAreaIDs []string `json:"catchmentAreaIds"`
}

func (h *AgentHandler) Register(c *gin.Context) {
	var req registerAgentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.agents.Register(c.Request.Context(), agent.RegisterCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PhoneNumber:      req.PhoneNumber,
		CatchmentAreaIDs: toIDs(req.CatchmentAreaIDs),
	})
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       id,
		"username": agent.Username(req.FirstName, req.LastName),
	})
}

func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.agents.List(c.Request.Context())
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chipsAgents": agents})
}

func (h *AgentHandler) Get(c *gin.Context) {
	a, err := h.agents.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type updateAgentReq struct {
	FirstName        *string  `json:"firstName"`
	LastName         *string  `json:"lastName"`
	PhoneNumber      *string  `json:"phoneNumber"`
	CatchmentAreaIDs []string `json:"catchmentAreaIds"`
	PushToken        *string  `json:"pushToken"`
}

func (h *AgentHandler) Update(c *gin.Context) {
	var req updateAgentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := agent.UpdateCommand{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		PushToken:   req.PushToken,
	}
	if req.CatchmentAreaIDs != nil {
		cmd.CatchmentAreaIDs = toIDs(req.CatchmentAreaIDs)
	}
	if err := h.agents.Update(c.Request.Context(), types.ID(c.Param("id")), cmd); err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *AgentHandler) Delete(c *gin.Context) {
	if err := h.agents.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func toIDs(raw []string) []types.ID {
	out := make([]types.ID, len(raw))
	for i, s := range raw {
		out[i] = types.ID(s)
	}
	return out
}

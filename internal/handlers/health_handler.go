package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/27100340/chat-app-backend-v1/internal/uow"
)

type HealthHandler struct {
	Runner uow.Runner
}

func NewHealthHandler(runner uow.Runner) *HealthHandler {
	return &HealthHandler{Runner: runner}
}

// Check reports liveness plus whether the database answers a ping.
func (h *HealthHandler) Check(c *gin.Context) {
	dbOK := h.Runner.TestConnection(c.Request.Context())

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   "ok",
		"database": dbOK,
	})
}

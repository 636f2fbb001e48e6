package handler

import (
	"net/http"

	"agilemate/internal/logger"
	"agilemate/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "AgileMate Backend"
	serviceVersion = "1.0.0"
)

type StatusHandler struct {
	db         Pinger
	env        string
	databaseID string
}

func NewStatusHandler(db Pinger, env, databaseID string) *StatusHandler {
	return &StatusHandler{db: db, env: env, databaseID: databaseID}
}

// GET /
func (h *StatusHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AgileMate Backend API is running!"})
}

// GET /api/status
func (h *StatusHandler) Status(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Document store is not initialized"})
		return
	}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		logger.Error("status.ping_failed", "err", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Document store is unavailable"})
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{
		Status:            "OK",
		Service:           serviceName,
		Version:           serviceVersion,
		Environment:       h.env,
		FirebaseConnected: true,
		ProjectID:         h.databaseID,
	})
}

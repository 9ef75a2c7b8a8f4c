package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"preview-api/internal/database"
	"preview-api/internal/metrics"
)

const healthTimeout = 2 * time.Second

type healthComponent struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]healthComponent `json:"components"`
}

func (h *Handler) registerActuator(r *gin.Engine) {
	g := r.Group("/actuator")
	g.GET("/health", h.health)
	g.GET("/info", h.actuatorInfo)
	r.GET(metrics.Path, gin.WrapH(metrics.Handler()))
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "UP", Components: map[string]healthComponent{}}
	db := healthComponent{Status: "UP"}
	if err := database.Ping(ctx, h.db); err != nil {
		h.logger.WarnContext(ctx, "database health check failed", "error", err)
		db = healthComponent{Status: "DOWN", Error: err.Error()}
		resp.Status = "DOWN"
	}
	resp.Components["db"] = db

	status := http.StatusOK
	if resp.Status != "UP" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *Handler) actuatorInfo(c *gin.Context) {
	info := h.info
	if info == nil {
		info = map[string]any{}
	}
	c.JSON(http.StatusOK, info)
}

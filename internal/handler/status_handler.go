package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-records/internal/service"
	"github.com/noah-isme/university-records/pkg/response"
)

// StatusHandler serves liveness, readiness and the metrics endpoints.
type StatusHandler struct {
	metrics *service.MetricsService
	ready   func(ctx context.Context) error
	started time.Time
}

// NewStatusHandler constructs the handler. ready checks the record store and
// may be nil; metrics may be nil when collection is disabled.
func NewStatusHandler(metrics *service.MetricsService, ready func(ctx context.Context) error) *StatusHandler {
	return &StatusHandler{metrics: metrics, ready: ready, started: time.Now()}
}

// Live reports that the process is serving.
func (h *StatusHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// Ready answers 503 while the record store is unreachable.
func (h *StatusHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Scrape serves the Prometheus exposition format.
func (h *StatusHandler) Scrape(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary returns averaged request and query timings.
func (h *StatusHandler) Summary(c *gin.Context) {
	response.OK(c, h.metrics.Snapshot())
}

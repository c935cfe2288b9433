package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyaid/airambulance/internal/service/dashboard"
)

type DashboardHandler struct {
	service dashboard.DashboardUseCase
}

func NewDashboardHandler(service dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Register mounts the aggregation endpoints on the bookings group, mirroring
// the booking-centric URL scheme.
func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/pending/count", h.pendingCount)
	router.GET("/completed/stats", h.completedStats)
}

func (h *DashboardHandler) pendingCount(c *gin.Context) {
	count, err := h.service.PendingCount(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending_approvals_count": count})
}

func (h *DashboardHandler) completedStats(c *gin.Context) {
	stats, err := h.service.CompletedStats(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

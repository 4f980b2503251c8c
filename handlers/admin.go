package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zawamu/analytics"
	"zawamu/models"
)

type AnalyticsService interface {
	Stats(ctx context.Context, now time.Time) (*analytics.Stats, error)
	RecentActivity(ctx context.Context) ([]models.Activity, error)
}

type AdminHandler struct {
	analytics AnalyticsService
	now       func() time.Time
}

func NewAdminHandler(a AnalyticsService) *AdminHandler {
	return &AdminHandler{analytics: a, now: time.Now}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.analytics.Stats(ctx, h.now())
	if err != nil {
		serverError(c, "Failed to load stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) RecentActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	events, err := h.analytics.RecentActivity(ctx)
	if err != nil {
		serverError(c, "Failed to load recent activity", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Analytics is a placeholder kept for clients that probe the old route.
func (h *AdminHandler) Analytics(c *gin.Context) {
	c.String(http.StatusOK, "Analytics endpoint")
}

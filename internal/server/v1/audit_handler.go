package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/phorde/freefleet/internal/fleet"
)

type AuditHandler struct {
	service fleet.Service
}

func NewAuditHandler(service fleet.Service) *AuditHandler {
	return &AuditHandler{service: service}
}

// Recent lists the latest blocked-model audit events. `?limit=` caps the
// count, defaulting to 50.
func (h *AuditHandler) Recent(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events := h.service.RecentAudit(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   events,
	})
}

// Metrics reports per-model usage aggregates.
func (h *AuditHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Metrics(c.Request.Context()))
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/fleet"
)

type ModelHandler struct {
	service fleet.Service
}

func NewModelHandler(service fleet.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// ListModels serves the latest discovery result, running a sweep on first
// use. `?category=` narrows the response to one functional bucket and
// `?refresh=true` forces a new sweep.
func (h *ModelHandler) ListModels(c *gin.Context) {
	result := h.service.Latest()
	if result == nil || c.Query("refresh") == "true" {
		var err error
		result, err = h.service.Discover(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
	}

	if category := c.Query("category"); category != "" {
		models := result.ModelsFor(domain.Category(category))
		if models == nil {
			_ = c.Error(domain.ErrNoCandidates)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"object":   "list",
			"category": category,
			"data":     models,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object":    "list",
		"providers": result.Providers,
		"data":      result.Categories,
	})
}

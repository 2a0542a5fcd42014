package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phorde/freefleet/internal/fleet"
)

type VerifyHandler struct {
	service fleet.Service
}

func NewVerifyHandler(service fleet.Service) *VerifyHandler {
	return &VerifyHandler{service: service}
}

// Verify resolves one model's cost verdict.
func (h *VerifyHandler) Verify(c *gin.Context) {
	provider := c.Param("provider")
	model := c.Param("model")

	verdict, err := h.service.Verify(c.Request.Context(), provider, model)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, verdict)
}

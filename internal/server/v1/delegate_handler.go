package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/delegator"
	"github.com/phorde/freefleet/internal/fleet"
)

type DelegateHandler struct {
	service fleet.Service
}

func NewDelegateHandler(service fleet.Service) *DelegateHandler {
	return &DelegateHandler{service: service}
}

type delegateRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	TaskType string `json:"task_type,omitempty"`
	Category string `json:"category,omitempty"`
}

type delegateResponse struct {
	Candidate  string      `json:"candidate"`
	Category   string      `json:"category"`
	TaskType   string      `json:"task_type"`
	DurationMS int64       `json:"duration_ms"`
	Attempts   int         `json:"attempts"`
	Output     interface{} `json:"output"`
}

// Delegate classifies the prompt and races the fleet for a completion.
func (h *DelegateHandler) Delegate(c *gin.Context) {
	var req delegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"title":  "Invalid Request",
			"detail": err.Error(),
		})
		return
	}

	result, err := h.service.Delegate(c.Request.Context(), delegator.Request{
		Prompt:        req.Prompt,
		ForceTaskType: domain.TaskType(req.TaskType),
		ForceCategory: domain.Category(req.Category),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, delegateResponse{
		Candidate:  result.Candidate,
		Category:   string(result.Category),
		TaskType:   string(result.TaskType),
		DurationMS: result.Duration.Milliseconds(),
		Attempts:   result.Attempts,
		Output:     result.Output,
	})
}

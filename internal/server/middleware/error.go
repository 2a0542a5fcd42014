package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phorde/freefleet/internal/core/domain"
)

type apiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// ErrorHandler maps errors attached by handlers to JSON responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var exhausted *domain.ExhaustedError
		var race *domain.RaceError

		switch {
		case errors.Is(err, domain.ErrNoProviders):
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apiError{
				Status: http.StatusServiceUnavailable,
				Title:  "No Providers Available",
				Detail: err.Error(),
			})
		case errors.Is(err, domain.ErrNoCandidates):
			c.AbortWithStatusJSON(http.StatusNotFound, apiError{
				Status: http.StatusNotFound,
				Title:  "No Candidates",
				Detail: err.Error(),
			})
		case errors.As(err, &exhausted), errors.As(err, &race):
			c.AbortWithStatusJSON(http.StatusBadGateway, apiError{
				Status: http.StatusBadGateway,
				Title:  "All Candidates Failed",
				Detail: err.Error(),
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Status: http.StatusInternalServerError,
				Title:  "Internal Server Error",
				Detail: "An unexpected error occurred.",
			})
		}
	}
}

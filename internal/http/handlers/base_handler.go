// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gocars/internal/modules/fleet"
	"gocars/internal/modules/matching"
	"gocars/internal/modules/outcome"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matching.ErrInvalidRequest), errors.Is(err, outcome.ErrBadRecord):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, matching.ErrDataSourceUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, fleet.ErrOptimizationRunning):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

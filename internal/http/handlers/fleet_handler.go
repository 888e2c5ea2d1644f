// README: Fleet handler; triggers an on-demand optimization pass.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gocars/internal/modules/fleet"
)

type FleetHandler struct {
	fleet *fleet.Service
}

func NewFleetHandler(svc *fleet.Service) *FleetHandler {
	return &FleetHandler{fleet: svc}
}

// Optimize runs one optimization pass and returns the full result. Returns
// 409 when a pass is already in flight.
func (h *FleetHandler) Optimize(c *gin.Context) {
	result, err := h.fleet.RunFleetOptimization(c.Request.Context())
	if err != nil {
		writeEngineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

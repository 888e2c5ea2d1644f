// README: Driver handlers; location updates in and out of the matchable pool.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gocars/internal/modules/matching"
	"gocars/internal/types"
)

type DriverHandler struct {
	candidates *matching.Store
}

func NewDriverHandler(store *matching.Store) *DriverHandler {
	return &DriverHandler{candidates: store}
}

type updateLocationReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation puts the driver into the matchable pool at the given point.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	driverID := c.Param("id")
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	var req updateLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p := types.Point{Lat: req.Lat, Lng: req.Lng}
	if !p.Valid() {
		writeError(c, http.StatusBadRequest, "coordinate out of range")
		return
	}
	if err := h.candidates.UpdatePosition(c.Request.Context(), types.ID(driverID), p); err != nil {
		writeEngineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "updated"})
}

// RemoveLocation takes the driver out of the matchable pool.
func (h *DriverHandler) RemoveLocation(c *gin.Context) {
	driverID := c.Param("id")
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	if err := h.candidates.RemoveCandidate(c.Request.Context(), types.ID(driverID)); err != nil {
		writeEngineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "removed"})
}

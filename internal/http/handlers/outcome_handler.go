// README: Outcome handler; records the realized result of a match.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gocars/internal/modules/outcome"
	"gocars/internal/types"
)

type OutcomeHandler struct {
	outcomes *outcome.Service
}

func NewOutcomeHandler(svc *outcome.Service) *OutcomeHandler {
	return &OutcomeHandler{outcomes: svc}
}

type recordOutcomeReq struct {
	MatchRequestID  string     `json:"match_request_id"`
	DriverID        string     `json:"driver_id"`
	Alternatives    []string   `json:"alternatives"`
	PassengerRating int        `json:"passenger_rating"`
	DriverRating    int        `json:"driver_rating"`
	VehicleType     string     `json:"vehicle_type"`
	Urgency         string     `json:"urgency"`
	ActualArrival   *time.Time `json:"actual_arrival"`
	ActualFare      *float64   `json:"actual_fare"`
	Status          string     `json:"status"`
	Issues          []string   `json:"issues"`
}

func (h *OutcomeHandler) Record(c *gin.Context) {
	var req recordOutcomeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	alternatives := make([]types.ID, len(req.Alternatives))
	for i, a := range req.Alternatives {
		alternatives[i] = types.ID(a)
	}

	err := h.outcomes.Record(c.Request.Context(), outcome.Record{
		MatchRequestID:  types.ID(req.MatchRequestID),
		DriverID:        types.ID(req.DriverID),
		Alternatives:    alternatives,
		PassengerRating: req.PassengerRating,
		DriverRating:    req.DriverRating,
		VehicleType:     req.VehicleType,
		Urgency:         req.Urgency,
		ActualArrival:   req.ActualArrival,
		ActualFare:      req.ActualFare,
		Status:          outcome.CompletionStatus(req.Status),
		Issues:          req.Issues,
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"status": "recorded"})
}

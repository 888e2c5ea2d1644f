// README: Match handler; accepts a match request and returns ranked candidates.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gocars/internal/modules/matching"
	"gocars/internal/types"
)

type MatchHandler struct {
	matching *matching.Service
}

func NewMatchHandler(svc *matching.Service) *MatchHandler {
	return &MatchHandler{matching: svc}
}

type matchPreferencesReq struct {
	DriverGender   string   `json:"driver_gender"`
	Conversation   string   `json:"conversation"`
	Music          string   `json:"music"`
	Languages      []string `json:"languages"`
	AllowSmoking   *bool    `json:"allow_smoking"`
	AllowPets      *bool    `json:"allow_pets"`
	MinRating      float64  `json:"min_rating"`
	ClimateControl bool     `json:"climate_control"`
}

type findMatchesReq struct {
	RequestID     string              `json:"request_id"`
	PassengerID   string              `json:"passenger_id"`
	PickupLat     float64             `json:"pickup_lat"`
	PickupLng     float64             `json:"pickup_lng"`
	DropoffLat    float64             `json:"dropoff_lat"`
	DropoffLng    float64             `json:"dropoff_lng"`
	VehicleType   string              `json:"vehicle_type"`
	Urgency       string              `json:"urgency"`
	Accessibility []string            `json:"accessibility"`
	Preferences   matchPreferencesReq `json:"preferences"`
}

func (h *MatchHandler) Find(c *gin.Context) {
	var req findMatchesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	needs := make([]matching.AccessibilityNeed, len(req.Accessibility))
	for i, n := range req.Accessibility {
		needs[i] = matching.AccessibilityNeed(n)
	}

	matches, err := h.matching.FindMatches(c.Request.Context(), matching.MatchRequest{
		ID:            types.ID(req.RequestID),
		PassengerID:   types.ID(req.PassengerID),
		Pickup:        types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:       types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		RequestedAt:   time.Now(),
		VehicleType:   req.VehicleType,
		Urgency:       matching.Urgency(req.Urgency),
		Accessibility: needs,
		Preferences: matching.Preferences{
			DriverGender:   req.Preferences.DriverGender,
			Conversation:   req.Preferences.Conversation,
			Music:          req.Preferences.Music,
			Languages:      req.Preferences.Languages,
			AllowSmoking:   req.Preferences.AllowSmoking,
			AllowPets:      req.Preferences.AllowPets,
			MinRating:      req.Preferences.MinRating,
			ClimateControl: req.Preferences.ClimateControl,
		},
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

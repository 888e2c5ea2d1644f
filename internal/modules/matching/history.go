// README: Historical outcome analyzer; folds past success rate into the score.
package matching

import (
	"fmt"

	"gocars/internal/modules/outcome"
)

// HistoryMultiplier turns a driver's outcome history into a score multiplier.
// Implementations must be stateless so Score stays a pure function. The rule
// table below stands in for a trained model; keep the interface so one can be
// slotted in later.
type HistoryMultiplier interface {
	Multiplier(req MatchRequest, history []outcome.Record) (float64, string)
}

const (
	// Success-rate thresholds and their multipliers. Hand-tuned, not learned.
	strongSuccessRate = 0.8
	goodSuccessRate   = 0.6
	poorSuccessRate   = 0.4

	strongBoost  = 1.10
	goodBoost    = 1.05
	poorPenalty  = 0.90
	neutralMulti = 1.0

	// A ride counts as a success only when it completed and both sides rated
	// it at least this highly.
	successRatingFloor = 4
)

// SuccessRateMultiplier is the default rule-table strategy: filter the
// driver's records to broadly similar requests (same vehicle type, urgency
// within one tier) and bucket the success rate.
type SuccessRateMultiplier struct{}

func (SuccessRateMultiplier) Multiplier(req MatchRequest, history []outcome.Record) (float64, string) {
	total, successes := 0, 0
	for _, r := range history {
		if !similarRequest(req, r) {
			continue
		}
		total++
		if isSuccess(r) {
			successes++
		}
	}

	if total == 0 {
		return neutralMulti, "no comparable ride history; neutral multiplier applied"
	}

	rate := float64(successes) / float64(total)
	switch {
	case rate > strongSuccessRate:
		return strongBoost, fmt.Sprintf("strong history: %d of %d similar rides succeeded", successes, total)
	case rate > goodSuccessRate:
		return goodBoost, fmt.Sprintf("good history: %d of %d similar rides succeeded", successes, total)
	case rate < poorSuccessRate:
		return poorPenalty, fmt.Sprintf("weak history: %d of %d similar rides succeeded", successes, total)
	default:
		return neutralMulti, fmt.Sprintf("mixed history: %d of %d similar rides succeeded", successes, total)
	}
}

// similarRequest keeps records for the same vehicle type (an empty filter on
// the request matches any) with urgency within one tier.
func similarRequest(req MatchRequest, r outcome.Record) bool {
	if req.VehicleType != "" && r.VehicleType != req.VehicleType {
		return false
	}
	dt := req.Urgency.tier() - Urgency(r.Urgency).tier()
	if dt < 0 {
		dt = -dt
	}
	return dt <= 1
}

func isSuccess(r outcome.Record) bool {
	return r.Status == outcome.StatusCompleted &&
		r.PassengerRating >= successRatingFloor &&
		r.DriverRating >= successRatingFloor
}

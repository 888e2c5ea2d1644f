// README: Outcome record model; the realized result of a match, read input to future scoring.
package outcome

import (
	"time"

	"gocars/internal/types"
)

type CompletionStatus string

const (
	StatusCompleted            CompletionStatus = "completed"
	StatusCancelledByPassenger CompletionStatus = "cancelled_by_passenger"
	StatusCancelledByDriver    CompletionStatus = "cancelled_by_driver"
	StatusNoShow               CompletionStatus = "no_show"
)

// Record is append-only: written once per match request, never mutated.
// VehicleType and Urgency are copied from the originating request so the
// history analyzer can filter for broadly similar rides without a join.
type Record struct {
	MatchRequestID  types.ID
	DriverID        types.ID
	Alternatives    []types.ID
	PassengerRating int
	DriverRating    int
	VehicleType     string
	Urgency         string
	ActualArrival   *time.Time
	ActualFare      *float64
	Status          CompletionStatus
	Issues          []string
	CreatedAt       time.Time
}

func validStatus(s CompletionStatus) bool {
	switch s {
	case StatusCompleted, StatusCancelledByPassenger, StatusCancelledByDriver, StatusNoShow:
		return true
	}
	return false
}

// README: Historical outcome analyzer tests; similarity filter and rate buckets.
package matching

import (
	"testing"

	"gocars/internal/modules/outcome"
)

func historyRequest() MatchRequest {
	return MatchRequest{VehicleType: "sedan", Urgency: UrgencyMedium}
}

func record(vehicle string, urgency Urgency, status outcome.CompletionStatus, passengerRating, driverRating int) outcome.Record {
	return outcome.Record{
		MatchRequestID:  "m-1",
		DriverID:        "d-1",
		VehicleType:     vehicle,
		Urgency:         string(urgency),
		Status:          status,
		PassengerRating: passengerRating,
		DriverRating:    driverRating,
	}
}

func success() outcome.Record {
	return record("sedan", UrgencyMedium, outcome.StatusCompleted, 5, 5)
}

func failure() outcome.Record {
	return record("sedan", UrgencyMedium, outcome.StatusCancelledByDriver, 0, 0)
}

func multiplierOf(t *testing.T, history []outcome.Record) float64 {
	t.Helper()
	m, _ := SuccessRateMultiplier{}.Multiplier(historyRequest(), history)
	return m
}

// ---------------------------------------------------------------------------
// Rate buckets
// ---------------------------------------------------------------------------

func TestMultiplier_NoHistory(t *testing.T) {
	if m := multiplierOf(t, nil); m != 1.0 {
		t.Fatalf("expected neutral 1.0 for empty history, got %f", m)
	}
}

func TestMultiplier_StrongHistory(t *testing.T) {
	history := []outcome.Record{success(), success(), success(), success(), success()}
	if m := multiplierOf(t, history); m != 1.10 {
		t.Fatalf("expected 1.10 for 100%% success, got %f", m)
	}
}

func TestMultiplier_GoodHistory(t *testing.T) {
	history := []outcome.Record{
		success(), success(), success(), success(),
		failure(),
	}
	// 4/5 = 0.8 is not above the strong threshold; it lands in the good bucket.
	if m := multiplierOf(t, history); m != 1.05 {
		t.Fatalf("expected 1.05 for 80%% success, got %f", m)
	}
}

func TestMultiplier_MixedHistory(t *testing.T) {
	history := []outcome.Record{success(), failure()}
	if m := multiplierOf(t, history); m != 1.0 {
		t.Fatalf("expected neutral 1.0 for 50%% success, got %f", m)
	}
}

func TestMultiplier_PoorHistory(t *testing.T) {
	history := []outcome.Record{
		success(),
		failure(), failure(), failure(),
	}
	if m := multiplierOf(t, history); m != 0.90 {
		t.Fatalf("expected 0.90 for 25%% success, got %f", m)
	}
}

// ---------------------------------------------------------------------------
// Similarity filter
// ---------------------------------------------------------------------------

func TestMultiplier_IgnoresDifferentVehicleType(t *testing.T) {
	history := []outcome.Record{
		record("suv", UrgencyMedium, outcome.StatusCancelledByDriver, 0, 0),
		record("suv", UrgencyMedium, outcome.StatusCancelledByDriver, 0, 0),
	}
	if m := multiplierOf(t, history); m != 1.0 {
		t.Fatalf("dissimilar vehicle records should be ignored, got %f", m)
	}
}

func TestMultiplier_EmptyRequestVehicleMatchesAny(t *testing.T) {
	req := MatchRequest{Urgency: UrgencyMedium}
	history := []outcome.Record{
		record("suv", UrgencyMedium, outcome.StatusCompleted, 5, 5),
		record("sedan", UrgencyMedium, outcome.StatusCompleted, 5, 5),
	}
	m, _ := SuccessRateMultiplier{}.Multiplier(req, history)
	if m != 1.10 {
		t.Fatalf("expected 1.10 when request has no vehicle filter, got %f", m)
	}
}

func TestMultiplier_IgnoresDistantUrgencyTiers(t *testing.T) {
	history := []outcome.Record{
		// Medium request vs urgent record is two tiers apart.
		record("sedan", UrgencyUrgent, outcome.StatusCancelledByDriver, 0, 0),
	}
	if m := multiplierOf(t, history); m != 1.0 {
		t.Fatalf("records two urgency tiers away should be ignored, got %f", m)
	}
}

func TestMultiplier_AdjacentUrgencyTierCounts(t *testing.T) {
	history := []outcome.Record{
		record("sedan", UrgencyHigh, outcome.StatusCompleted, 5, 5),
	}
	if m := multiplierOf(t, history); m != 1.10 {
		t.Fatalf("adjacent urgency tier should count, got %f", m)
	}
}

// ---------------------------------------------------------------------------
// Success definition
// ---------------------------------------------------------------------------

func TestMultiplier_LowRatingIsNotSuccess(t *testing.T) {
	history := []outcome.Record{
		record("sedan", UrgencyMedium, outcome.StatusCompleted, 3, 5),
	}
	// One similar ride, zero successes: rate 0 lands in the poor bucket.
	if m := multiplierOf(t, history); m != 0.90 {
		t.Fatalf("completed ride with low rating must not count as success, got %f", m)
	}
}

func TestMultiplier_CancellationIsNotSuccess(t *testing.T) {
	history := []outcome.Record{
		record("sedan", UrgencyMedium, outcome.StatusCancelledByPassenger, 5, 5),
	}
	if m := multiplierOf(t, history); m != 0.90 {
		t.Fatalf("cancelled ride must not count as success, got %f", m)
	}
}

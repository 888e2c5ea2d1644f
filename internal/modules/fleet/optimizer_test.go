// README: Optimizer tests; targets, score, move planning, and prioritization.
package fleet

import (
	"fmt"
	"math"
	"testing"

	"gocars/internal/modules/matching"
	"gocars/internal/types"
)

var (
	centroidA = types.Point{Lat: 25.00, Lng: 121.50}
	centroidB = types.Point{Lat: 25.20, Lng: 121.50}
)

func twoZones() []Zone {
	return []Zone{
		{ID: "zone-a", Name: "A", Centroid: centroidA},
		{ID: "zone-b", Name: "B", Centroid: centroidB},
	}
}

func equalDemand() []ZoneDemand {
	return []ZoneDemand{
		{ZoneID: "zone-a", Expected: 10},
		{ZoneID: "zone-b", Expected: 10},
	}
}

func driversAt(p types.Point, prefix string, n int) []matching.DriverCandidate {
	out := make([]matching.DriverCandidate, n)
	for i := range out {
		out[i] = matching.DriverCandidate{
			ID:        types.ID(fmt.Sprintf("%s-%d", prefix, i)),
			Position:  p,
			Available: true,
			Work:      matching.WorkPattern{MaxRidesPerDay: 10, CurrentRides: 0},
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Score and targets
// ---------------------------------------------------------------------------

func TestOptimize_NoZones(t *testing.T) {
	result := Optimize(driversAt(centroidA, "d", 3), nil, nil)
	if result.Score != 100 {
		t.Fatalf("expected score 100 with no zones, got %f", result.Score)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(result.Recommendations))
	}
}

func TestOptimize_BalancedFleet(t *testing.T) {
	candidates := append(driversAt(centroidA, "a", 2), driversAt(centroidB, "b", 2)...)
	result := Optimize(candidates, twoZones(), equalDemand())

	if result.Score != 100 {
		t.Fatalf("expected perfect score, got %f", result.Score)
	}
	if result.TotalDeviation != 0 {
		t.Fatalf("expected zero deviation, got %d", result.TotalDeviation)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("balanced fleet should produce no moves, got %d", len(result.Recommendations))
	}
}

func TestOptimize_IgnoresUnavailableDrivers(t *testing.T) {
	candidates := driversAt(centroidA, "a", 3)
	candidates[2].Available = false
	result := Optimize(candidates, twoZones(), equalDemand())
	if result.TotalDrivers != 2 {
		t.Fatalf("expected 2 available drivers counted, got %d", result.TotalDrivers)
	}
}

func TestOptimize_ScoreReflectsImbalance(t *testing.T) {
	// 6 drivers all in zone A, equal demand: targets 3/3, deviation 3+3=6,
	// max deviation 12, score 50.
	result := Optimize(driversAt(centroidA, "a", 6), twoZones(), equalDemand())
	if math.Abs(result.Score-50) > 1e-9 {
		t.Fatalf("expected score 50, got %f", result.Score)
	}
	if result.TotalDeviation != 6 {
		t.Fatalf("expected total deviation 6, got %d", result.TotalDeviation)
	}
}

func TestOptimize_DemandMultiplierSkewsTargets(t *testing.T) {
	zones := twoZones()
	zones[1].DemandMultiplier = 3 // B weighs triple
	candidates := append(driversAt(centroidA, "a", 2), driversAt(centroidB, "b", 2)...)
	result := Optimize(candidates, zones, equalDemand())

	// Effective demand 10 vs 30: targets 1/3.
	if result.Zones[0].Target != 1 || result.Zones[1].Target != 3 {
		t.Fatalf("expected targets 1/3, got %d/%d", result.Zones[0].Target, result.Zones[1].Target)
	}
}

func TestOptimize_TargetsClampedToOperatorBounds(t *testing.T) {
	zones := twoZones()
	zones[0].MaxDrivers = 1
	zones[1].MinDrivers = 4
	candidates := append(driversAt(centroidA, "a", 3), driversAt(centroidB, "b", 3)...)
	result := Optimize(candidates, zones, equalDemand())

	if result.Zones[0].Target != 1 {
		t.Fatalf("expected max clamp to 1, got %d", result.Zones[0].Target)
	}
	if result.Zones[1].Target != 4 {
		t.Fatalf("expected min clamp to 4, got %d", result.Zones[1].Target)
	}
}

func TestOptimize_UnmetDemandRatio(t *testing.T) {
	demand := []ZoneDemand{
		{ZoneID: "zone-a", Expected: 10, Unmet: 3},
		{ZoneID: "zone-b", Expected: 10, Unmet: 0},
	}
	result := Optimize(driversAt(centroidA, "a", 2), twoZones(), demand)
	if math.Abs(result.UnmetDemandRatio-0.15) > 1e-9 {
		t.Fatalf("expected unmet ratio 0.15, got %f", result.UnmetDemandRatio)
	}
}

// ---------------------------------------------------------------------------
// Move planning
// ---------------------------------------------------------------------------

func TestOptimize_MovesSurplusTowardDeficit(t *testing.T) {
	// 6 in A, 0 in B: targets 3/3. Moves continue until the deficit is within
	// the slack of one driver.
	result := Optimize(driversAt(centroidA, "a", 6), twoZones(), equalDemand())

	if len(result.Recommendations) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(result.Recommendations))
	}
	for _, rec := range result.Recommendations {
		if rec.FromZoneID != "zone-a" || rec.ToZoneID != "zone-b" {
			t.Fatalf("expected move from zone-a to zone-b, got %s -> %s", rec.FromZoneID, rec.ToZoneID)
		}
		if rec.To != centroidB {
			t.Fatalf("move should target the deficit centroid, got %+v", rec.To)
		}
	}
}

func TestOptimize_PriorityScalesWithDeficit(t *testing.T) {
	// 12 in A, 0 in B: targets 6/6. First move addresses a deficit of 6.
	result := Optimize(driversAt(centroidA, "a", 12), twoZones(), equalDemand())

	if len(result.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if result.Recommendations[0].Priority != PriorityHigh {
		t.Fatalf("expected first move high priority, got %s", result.Recommendations[0].Priority)
	}
	// Priorities are sorted descending.
	for i := 1; i < len(result.Recommendations); i++ {
		if result.Recommendations[i].Priority.rank() > result.Recommendations[i-1].Priority.rank() {
			t.Fatalf("recommendations not sorted by priority at %d", i)
		}
	}
}

func TestOptimize_BusyDriversStayPut(t *testing.T) {
	candidates := driversAt(centroidA, "a", 6)
	for i := range candidates {
		candidates[i].Work.CurrentRides = 8 // utilization 0.8, above the ceiling
	}
	result := Optimize(candidates, twoZones(), equalDemand())
	if len(result.Recommendations) != 0 {
		t.Fatalf("busy drivers must not be asked to move, got %d recommendations", len(result.Recommendations))
	}
}

func TestOptimize_PicksLeastUtilizedDriver(t *testing.T) {
	candidates := driversAt(centroidA, "a", 6)
	for i := range candidates {
		candidates[i].Work.CurrentRides = 4 // utilization 0.4
	}
	candidates[3].Work.CurrentRides = 1 // the idle one

	result := Optimize(candidates, twoZones(), equalDemand())
	if len(result.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if result.Recommendations[0].DriverID != "a-3" {
		t.Fatalf("expected least-utilized driver a-3 first, got %s", result.Recommendations[0].DriverID)
	}
}

func TestOptimize_EachDriverMovedOnce(t *testing.T) {
	result := Optimize(driversAt(centroidA, "a", 12), twoZones(), equalDemand())
	seen := map[types.ID]bool{}
	for _, rec := range result.Recommendations {
		if seen[rec.DriverID] {
			t.Fatalf("driver %s recommended twice", rec.DriverID)
		}
		seen[rec.DriverID] = true
	}
}

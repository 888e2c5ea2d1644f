// README: Zone, demand, and rebalancing recommendation models.
package fleet

import (
	"time"

	"gocars/internal/types"
)

// Zone is an operator-defined geographic area used for supply/demand
// balancing. Configuration only; current counts are computed per pass.
type Zone struct {
	ID               types.ID
	Name             string
	Centroid         types.Point
	Polygon          []types.Point // empty = centroid-only zone
	PriorityWeight   float64
	DemandMultiplier float64
	MinDrivers       int
	MaxDrivers       int // 0 = unbounded
}

// ZoneDemand is one zone's demand estimate for the current window.
type ZoneDemand struct {
	ZoneID   types.ID
	Expected float64 // forecast ride requests
	Unmet    float64 // requests that found no driver
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// rank orders priorities for sorting; higher is more urgent.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}
	return 0
}

// Impact estimates what one repositioning buys.
type Impact struct {
	WaitReductionMin float64 `json:"wait_reduction_min"`
	UtilizationGain  float64 `json:"utilization_gain"`
	RevenueGain      float64 `json:"revenue_gain"`
}

// Recommendation is a suggested driver relocation. Ephemeral: regenerated on
// every optimization pass, never carried forward.
type Recommendation struct {
	DriverID      types.ID    `json:"driver_id"`
	From          types.Point `json:"from"`
	To            types.Point `json:"to"`
	FromZoneID    types.ID    `json:"from_zone_id"`
	ToZoneID      types.ID    `json:"to_zone_id"`
	Priority      Priority    `json:"priority"`
	Impact        Impact      `json:"impact"`
	TravelMinutes float64     `json:"travel_minutes"`
	Confidence    float64     `json:"confidence"`
}

// ZoneStatus is the per-zone supply picture of one pass.
type ZoneStatus struct {
	ZoneID    types.ID `json:"zone_id"`
	Current   int      `json:"current"`
	Target    int      `json:"target"`
	Deviation int      `json:"deviation"` // current - target
}

// OptimizationResult summarises one pass. Score 100 means supply exactly
// matches the demand-proportional target; 0 means maximal misallocation.
type OptimizationResult struct {
	GeneratedAt      time.Time        `json:"generated_at"`
	TotalDrivers     int              `json:"total_drivers"`
	Zones            []ZoneStatus     `json:"zones"`
	Recommendations  []Recommendation `json:"recommendations"`
	Score            float64          `json:"score"`
	TotalDeviation   int              `json:"total_deviation"`
	UnmetDemandRatio float64          `json:"unmet_demand_ratio"`
	Triggered        bool             `json:"triggered"`
	Executed         int              `json:"executed"`
}

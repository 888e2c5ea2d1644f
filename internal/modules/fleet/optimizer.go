// README: Fleet distribution optimizer; compares supply to demand-weighted targets.
package fleet

import (
	"math"
	"sort"
	"time"

	"gocars/internal/modules/matching"
	"gocars/internal/types"
)

const (
	// surplusSlack: a zone is only a surplus/deficit once it deviates by more
	// than one driver, so the optimizer does not churn on noise.
	surplusSlack = 1
	// lowUtilizationCeiling: only drivers below this utilization are asked to
	// reposition; busy drivers stay where their rides are.
	lowUtilizationCeiling = 0.5
	// Deficit magnitudes at which a recommendation escalates.
	mediumDeficit = 3
	highDeficit   = 5
	// waitPerMissingDriverMin estimates passenger wait added by each missing driver.
	waitPerMissingDriverMin = 1.5
	// fareGainPerDeficitDriver estimates recovered revenue per missing driver filled.
	fareGainPerDeficitDriver = 5.5
	// avgRepositionSpeedKmh converts relocation distance to travel time.
	avgRepositionSpeedKmh = 30.0
)

// Optimize aggregates driver positions against zones, derives a
// demand-proportional target distribution, and emits prioritized repositioning
// recommendations. Pure function of its inputs; trigger evaluation and
// execution live in the service.
func Optimize(candidates []matching.DriverCandidate, zones []Zone, demand []ZoneDemand) OptimizationResult {
	result := OptimizationResult{GeneratedAt: time.Now(), Score: 100}
	if len(zones) == 0 {
		return result
	}

	idx := newZoneIndex(zones)

	available := make([]matching.DriverCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Available {
			available = append(available, c)
		}
	}
	result.TotalDrivers = len(available)

	// (1) current driver count per zone, with the driver lists kept so moves
	// can name a concrete driver.
	current := make([]int, len(zones))
	occupants := make([][]matching.DriverCandidate, len(zones))
	for _, c := range available {
		zi := idx.assign(c.Position)
		if zi < 0 {
			continue
		}
		current[zi]++
		occupants[zi] = append(occupants[zi], c)
	}

	// (2) demand-proportional targets, clamped to operator bounds.
	effective := make([]float64, len(zones))
	totalDemand, totalUnmet := 0.0, 0.0
	byZone := make(map[types.ID]ZoneDemand, len(demand))
	for _, d := range demand {
		byZone[d.ZoneID] = d
	}
	for i, z := range zones {
		d := byZone[z.ID]
		mult := z.DemandMultiplier
		if mult <= 0 {
			mult = 1
		}
		effective[i] = d.Expected * mult
		totalDemand += effective[i]
		totalUnmet += d.Unmet
	}
	if totalDemand > 0 {
		result.UnmetDemandRatio = totalUnmet / totalDemand
	}

	target := make([]int, len(zones))
	if totalDemand > 0 {
		for i, z := range zones {
			t := int(math.Round(float64(result.TotalDrivers) * effective[i] / totalDemand))
			if t < z.MinDrivers {
				t = z.MinDrivers
			}
			if z.MaxDrivers > 0 && t > z.MaxDrivers {
				t = z.MaxDrivers
			}
			target[i] = t
		}
	}

	result.Zones = make([]ZoneStatus, len(zones))
	for i, z := range zones {
		result.Zones[i] = ZoneStatus{
			ZoneID:    z.ID,
			Current:   current[i],
			Target:    target[i],
			Deviation: current[i] - target[i],
		}
		result.TotalDeviation += abs(current[i] - target[i])
	}

	// Score: 100 at perfect alignment, 0 when every driver sits in the wrong
	// zone (deviation twice the fleet size: once missing, once misplaced).
	if result.TotalDrivers > 0 {
		maxDeviation := 2 * result.TotalDrivers
		result.Score = (1 - float64(result.TotalDeviation)/float64(maxDeviation)) * 100
	}

	// (3) drain each surplus/deficit zone pair to within the slack, moving
	// low-utilization drivers toward the deficit centroid.
	result.Recommendations = planMoves(zones, current, target, occupants)

	// (5) priority-descending, then by impact so equal priorities order
	// deterministically.
	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		a, b := result.Recommendations[i], result.Recommendations[j]
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() > b.Priority.rank()
		}
		return a.Impact.WaitReductionMin > b.Impact.WaitReductionMin
	})
	return result
}

func planMoves(zones []Zone, current, target []int, occupants [][]matching.DriverCandidate) []Recommendation {
	work := make([]int, len(current))
	copy(work, current)
	used := make(map[types.ID]bool)

	var recs []Recommendation
	for di := range zones {
		for si := range zones {
			if si == di {
				continue
			}
			for {
				deficit := target[di] - work[di]
				if deficit <= surplusSlack {
					break
				}
				if work[si]-target[si] <= surplusSlack {
					break
				}
				driver, ok := pickRelocatable(occupants[si], used)
				if !ok {
					break
				}
				used[driver.ID] = true
				work[si]--
				work[di]++
				recs = append(recs, buildRecommendation(driver, zones[si], zones[di], deficit))
			}
		}
	}
	return recs
}

// pickRelocatable returns the least-utilized unused driver below the
// relocation ceiling.
func pickRelocatable(pool []matching.DriverCandidate, used map[types.ID]bool) (matching.DriverCandidate, bool) {
	best, found := matching.DriverCandidate{}, false
	for _, c := range pool {
		if used[c.ID] || c.UtilizationRate() >= lowUtilizationCeiling {
			continue
		}
		if !found || c.UtilizationRate() < best.UtilizationRate() {
			best, found = c, true
		}
	}
	return best, found
}

// buildRecommendation derives priority from the magnitude of the deficit it
// addresses, so priority is monotone in zone deviation.
func buildRecommendation(driver matching.DriverCandidate, from, to Zone, deficit int) Recommendation {
	priority := PriorityLow
	switch {
	case deficit >= highDeficit:
		priority = PriorityHigh
	case deficit >= mediumDeficit:
		priority = PriorityMedium
	}

	distanceKm := types.DistanceKm(driver.Position, to.Centroid)
	return Recommendation{
		DriverID:   driver.ID,
		From:       driver.Position,
		To:         to.Centroid,
		FromZoneID: from.ID,
		ToZoneID:   to.ID,
		Priority:   priority,
		Impact: Impact{
			WaitReductionMin: float64(deficit) * waitPerMissingDriverMin,
			UtilizationGain:  math.Max(0, lowUtilizationCeiling-driver.UtilizationRate()),
			RevenueGain:      float64(deficit) * fareGainPerDeficitDriver,
		},
		TravelMinutes: distanceKm / avgRepositionSpeedKmh * 60,
		Confidence:    math.Min(0.9, 0.5+0.05*float64(deficit)),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

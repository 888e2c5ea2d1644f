// README: Scoring engine; computes the seven-factor match score for one driver.
package matching

import (
	"fmt"
	"math"

	"gocars/internal/modules/outcome"
	"gocars/internal/types"
)

const (
	// defaultMaxDistanceKm normalises the distance factor when no radius is configured.
	defaultMaxDistanceKm = 10.0
	// veryCloseKm and nearbyKm are the distance explanation buckets.
	veryCloseKm = 2.0
	nearbyKm    = 5.0
	// maxResponseTimeSec floors the response-time score at zero.
	maxResponseTimeSec = 300.0
	// experienceYearsCap and completedRidesCap bound the experience factor inputs.
	experienceYearsCap = 5.0
	completedRidesCap  = 1000.0
	// avgSpeedKmh is the arrival-estimate placeholder until the distance oracle
	// is consulted by the caller.
	avgSpeedKmh = 30.0
	// baseFare and perKmRate drive the fare estimate.
	baseFare  = 3.50
	perKmRate = 2.00
	// lowRideCountThreshold adds risk for drivers with a thin track record.
	lowRideCountThreshold = 50
	// ridesForConfidence and lowVarianceThreshold feed the confidence estimate.
	ridesForConfidence    = 100
	lowVarianceThreshold  = 0.1
	loadHeadroomThreshold = 0.8
)

// Engine computes match scores. It holds configuration only; Score is a pure
// function of its inputs and safe for concurrent use.
type Engine struct {
	maxDistanceKm float64
	history       HistoryMultiplier
}

func NewEngine(maxDistanceKm float64, history HistoryMultiplier) *Engine {
	if maxDistanceKm <= 0 {
		maxDistanceKm = defaultMaxDistanceKm
	}
	if history == nil {
		history = SuccessRateMultiplier{}
	}
	return &Engine{maxDistanceKm: maxDistanceKm, history: history}
}

// Score computes the weighted multi-factor match score for one driver against
// one request. history may be nil or empty; the multiplier then stays neutral.
func (e *Engine) Score(req MatchRequest, d DriverCandidate, w WeightSet, history []outcome.Record) MatchScore {
	distanceKm := types.DistanceKm(req.Pickup, d.Position)

	factors := map[Factor]FactorScore{
		FactorDistance:      e.scoreDistance(distanceKm, w.Distance),
		FactorAvailability:  scoreAvailability(req, d, w.Availability),
		FactorPreferences:   scorePreferences(req, d, w.Preferences),
		FactorPerformance:   scorePerformance(d, w.Performance),
		FactorExperience:    scoreExperience(d, w.Experience),
		FactorCompatibility: scoreCompatibility(req, d, w.Compatibility),
		FactorAccessibility: scoreAccessibility(req, d, w.Accessibility),
	}

	var weighted float64
	for _, f := range Factors {
		weighted += factors[f].Score * factors[f].Weight
	}

	multiplier, historyNote := e.history.Multiplier(req, history)
	total := clamp01(weighted * multiplier)

	return MatchScore{
		DriverID:       d.ID,
		Total:          total,
		Confidence:     confidence(d, factors),
		Explanation:    explain(factors, historyNote),
		Factors:        factors,
		ArrivalMinutes: distanceKm / avgSpeedKmh * 60,
		EstimatedFare:  baseFare + distanceKm*perKmRate,
		RiskScore:      riskScore(d),
	}
}

func (e *Engine) scoreDistance(distanceKm, weight float64) FactorScore {
	score := math.Max(0, 1-distanceKm/e.maxDistanceKm)
	var bucket string
	switch {
	case distanceKm < veryCloseKm:
		bucket = "very close"
	case distanceKm < nearbyKm:
		bucket = "nearby"
	default:
		bucket = "within range"
	}
	return FactorScore{
		Score:       score,
		Weight:      weight,
		Explanation: fmt.Sprintf("driver is %s (%.1f km from pickup)", bucket, distanceKm),
	}
}

func scoreAvailability(req MatchRequest, d DriverCandidate, weight float64) FactorScore {
	var score float64
	if d.Available {
		score = 0.5
	}
	hour := req.RequestedAt.Hour()
	inPreferred := false
	for _, h := range d.Work.PreferredHours {
		if h == hour {
			inPreferred = true
			break
		}
	}
	if inPreferred {
		score += 0.3
	}
	hasHeadroom := d.Work.MaxRidesPerDay > 0 && d.UtilizationRate() < loadHeadroomThreshold
	if hasHeadroom {
		score += 0.2
	}
	score = math.Min(score, 1.0)

	expl := "driver is offline"
	if d.Available {
		expl = "driver is available"
		if inPreferred {
			expl += ", within preferred hours"
		}
		if hasHeadroom {
			expl += ", with daily capacity to spare"
		}
	}
	return FactorScore{Score: score, Weight: weight, Explanation: expl}
}

func scorePreferences(req MatchRequest, d DriverCandidate, weight float64) FactorScore {
	p := req.Preferences
	specified, matched := 0, 0

	if p.DriverGender != "" {
		specified++
		if d.Characteristics.Gender == p.DriverGender {
			matched++
		}
	}
	if p.Conversation != "" {
		specified++
		if d.Characteristics.Conversation == p.Conversation {
			matched++
		}
	}
	if p.Music != "" {
		specified++
		if d.Characteristics.Music == p.Music {
			matched++
		}
	}
	if len(p.Languages) > 0 {
		specified++
		if sharesLanguage(p.Languages, d.Characteristics.Languages) {
			matched++
		}
	}
	if p.MinRating > 0 {
		specified++
		if d.Rating >= p.MinRating {
			matched++
		}
	}

	if specified == 0 {
		return FactorScore{
			Score:       0.5,
			Weight:      weight,
			Explanation: "no preferences specified",
		}
	}
	return FactorScore{
		Score:       float64(matched) / float64(specified),
		Weight:      weight,
		Explanation: fmt.Sprintf("%d of %d preferences matched", matched, specified),
	}
}

func sharesLanguage(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

func scorePerformance(d DriverCandidate, weight float64) FactorScore {
	p := d.Performance
	responseScore := math.Max(0, 1-p.ResponseTimeSec/maxResponseTimeSec)
	score := 0.2*responseScore +
		0.2*(1-p.CancellationRate) +
		0.2*(1-p.LateArrivalRate) +
		0.2*(d.Rating/5) +
		0.1*p.SafetyScore +
		0.1*p.EfficiencyScore
	return FactorScore{
		Score:       clamp01(score),
		Weight:      weight,
		Explanation: fmt.Sprintf("%.1f★ rating, %.0f%% completion reliability", d.Rating, (1-p.CancellationRate)*100),
	}
}

func scoreExperience(d DriverCandidate, weight float64) FactorScore {
	yearsScore := math.Min(d.ExperienceYears/experienceYearsCap, 1.0)
	ridesScore := math.Min(float64(d.CompletedRides)/completedRidesCap, 1.0)
	return FactorScore{
		Score:       0.4*yearsScore + 0.6*ridesScore,
		Weight:      weight,
		Explanation: fmt.Sprintf("%.1f years driving, %d rides completed", d.ExperienceYears, d.CompletedRides),
	}
}

func scoreCompatibility(req MatchRequest, d DriverCandidate, weight float64) FactorScore {
	p := req.Preferences
	var score float64
	if req.VehicleType == "" || req.VehicleType == d.VehicleType {
		score += 0.3
	}
	if p.AllowSmoking == nil || *p.AllowSmoking == d.Characteristics.AllowsSmoking {
		score += 0.2
	}
	if p.AllowPets == nil || *p.AllowPets == d.Characteristics.AllowsPets {
		score += 0.2
	}
	if p.ClimateControl && d.Vehicle.ClimateControl {
		score += 0.3
	}
	return FactorScore{
		Score:       math.Min(score, 1.0),
		Weight:      weight,
		Explanation: "vehicle and ride-style compatibility",
	}
}

func scoreAccessibility(req MatchRequest, d DriverCandidate, weight float64) FactorScore {
	needs := req.Accessibility
	if len(needs) == 0 {
		return FactorScore{
			Score:       1.0,
			Weight:      weight,
			Explanation: "no accessibility needs specified",
		}
	}
	satisfied := 0
	for _, n := range needs {
		if vehicleSatisfies(d.Vehicle, n) {
			satisfied++
		}
	}
	return FactorScore{
		Score:       float64(satisfied) / float64(len(needs)),
		Weight:      weight,
		Explanation: fmt.Sprintf("%d of %d accessibility needs met", satisfied, len(needs)),
	}
}

func vehicleSatisfies(v VehicleFeatures, n AccessibilityNeed) bool {
	switch n {
	case NeedWheelchair:
		return v.WheelchairAccessible
	case NeedServiceAnimal:
		return v.ServiceAnimalFriendly
	case NeedChildSeat:
		return v.ChildSeat
	case NeedSensoryFriendly:
		return v.SensoryFriendly
	}
	return false
}

// confidence estimates how reliable the total score is. Low variance across
// factors means they agree, which the design treats as a proxy for estimate
// reliability.
func confidence(d DriverCandidate, factors map[Factor]FactorScore) float64 {
	c := 0.5
	if d.CompletedRides > ridesForConfidence {
		c += 0.2
	}
	if d.Performance.SatisfactionScore > 0 {
		c += 0.1
	}
	if d.ExperienceYears > 1 {
		c += 0.1
	}
	if factorVariance(factors) < lowVarianceThreshold {
		c += 0.1
	}
	return math.Min(c, 1.0)
}

func factorVariance(factors map[Factor]FactorScore) float64 {
	var mean float64
	for _, f := range Factors {
		mean += factors[f].Score
	}
	mean /= float64(len(Factors))

	var variance float64
	for _, f := range Factors {
		dev := factors[f].Score - mean
		variance += dev * dev
	}
	return variance / float64(len(Factors))
}

func riskScore(d DriverCandidate) float64 {
	p := d.Performance
	risk := 0.3*p.CancellationRate + 0.2*p.LateArrivalRate + 0.3*(1-p.SafetyScore)
	if d.CompletedRides < lowRideCountThreshold {
		risk += 0.2
	}
	return clamp01(risk)
}

// explain joins the per-factor explanations in canonical order, with the
// history note last.
func explain(factors map[Factor]FactorScore, historyNote string) string {
	out := ""
	for _, f := range Factors {
		if out != "" {
			out += "; "
		}
		out += factors[f].Explanation
	}
	return out + "; " + historyNote
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

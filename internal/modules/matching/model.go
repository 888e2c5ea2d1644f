// README: Match request, driver candidate, and score models for the matching engine.
package matching

import (
	"time"

	"gocars/internal/types"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// tier orders urgencies so the history analyzer can match "within one tier".
func (u Urgency) tier() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyUrgent:
		return 3
	}
	return -1
}

func (u Urgency) valid() bool { return u.tier() >= 0 }

type AccessibilityNeed string

const (
	NeedWheelchair      AccessibilityNeed = "wheelchair"
	NeedServiceAnimal   AccessibilityNeed = "service_animal"
	NeedChildSeat       AccessibilityNeed = "child_seat"
	NeedSensoryFriendly AccessibilityNeed = "sensory_friendly"
)

func validNeed(n AccessibilityNeed) bool {
	switch n {
	case NeedWheelchair, NeedServiceAnimal, NeedChildSeat, NeedSensoryFriendly:
		return true
	}
	return false
}

// Preferences are the passenger's soft constraints. Zero values mean
// "no preference" and are excluded from the preference factor denominator.
type Preferences struct {
	DriverGender   string
	Conversation   string
	Music          string
	Languages      []string
	AllowSmoking   *bool
	AllowPets      *bool
	MinRating      float64
	ClimateControl bool
}

// MatchRequest identifies exactly one matching attempt. Immutable once created.
type MatchRequest struct {
	ID            types.ID
	PassengerID   types.ID
	Pickup        types.Point
	Dropoff       types.Point
	RequestedAt   time.Time
	VehicleType   string // empty = any vehicle type
	Urgency       Urgency
	Accessibility []AccessibilityNeed
	Preferences   Preferences
}

// Characteristics describe the driver as a person; matched against passenger
// preferences.
type Characteristics struct {
	Gender        string
	Conversation  string
	Music         string
	Languages     []string
	AllowsSmoking bool
	AllowsPets    bool
}

// VehicleFeatures cover accessibility and comfort equipment.
type VehicleFeatures struct {
	WheelchairAccessible  bool
	ServiceAnimalFriendly bool
	ChildSeat             bool
	SensoryFriendly       bool
	ClimateControl        bool
	Comfort               []string
}

// Performance is the driver's operational track record. Rates are in [0,1],
// response time in seconds, scores in [0,1].
type Performance struct {
	ResponseTimeSec   float64
	CancellationRate  float64
	LateArrivalRate   float64
	SatisfactionScore float64
	SafetyScore       float64
	EfficiencyScore   float64
}

// WorkPattern is the driver's declared availability envelope.
type WorkPattern struct {
	PreferredHours []int // hours of day, 0-23
	PreferredZones []types.ID
	MaxRidesPerDay int
	CurrentRides   int
}

// DriverCandidate is a read-only snapshot of a driver at request time. The
// engine never writes driver state.
type DriverCandidate struct {
	ID              types.ID
	Position        types.Point
	Available       bool
	VehicleType     string
	Rating          float64
	CompletedRides  int
	ExperienceYears float64
	Characteristics Characteristics
	Vehicle         VehicleFeatures
	Performance     Performance
	Work            WorkPattern
}

// UtilizationRate is the share of the driver's daily ride budget already used.
func (d DriverCandidate) UtilizationRate() float64 {
	if d.Work.MaxRidesPerDay <= 0 {
		return 0
	}
	return float64(d.Work.CurrentRides) / float64(d.Work.MaxRidesPerDay)
}

type Factor string

const (
	FactorDistance      Factor = "distance"
	FactorAvailability  Factor = "availability"
	FactorPreferences   Factor = "preferences"
	FactorPerformance   Factor = "performance"
	FactorExperience    Factor = "experience"
	FactorCompatibility Factor = "compatibility"
	FactorAccessibility Factor = "accessibility"
)

// Factors is the canonical factor order, used wherever deterministic
// iteration matters (explanations, variance).
var Factors = [7]Factor{
	FactorDistance,
	FactorAvailability,
	FactorPreferences,
	FactorPerformance,
	FactorExperience,
	FactorCompatibility,
	FactorAccessibility,
}

// FactorScore is one scoring dimension: score and weight in [0,1] plus a
// human-readable explanation.
type FactorScore struct {
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation"`
}

// WeightSet assigns one weight per factor. A valid set sums to 1 within
// floating-point tolerance.
type WeightSet struct {
	Distance      float64
	Availability  float64
	Preferences   float64
	Performance   float64
	Experience    float64
	Compatibility float64
	Accessibility float64
}

func (w WeightSet) of(f Factor) float64 {
	switch f {
	case FactorDistance:
		return w.Distance
	case FactorAvailability:
		return w.Availability
	case FactorPreferences:
		return w.Preferences
	case FactorPerformance:
		return w.Performance
	case FactorExperience:
		return w.Experience
	case FactorCompatibility:
		return w.Compatibility
	case FactorAccessibility:
		return w.Accessibility
	}
	return 0
}

// Sum returns the total weight; callers check it against 1.0.
func (w WeightSet) Sum() float64 {
	return w.Distance + w.Availability + w.Preferences + w.Performance +
		w.Experience + w.Compatibility + w.Accessibility
}

// MatchScore is the total weighted suitability of one driver for one request.
// A pure computed value; the engine persists nothing.
type MatchScore struct {
	DriverID       types.ID               `json:"driver_id"`
	Total          float64                `json:"total"`
	Confidence     float64                `json:"confidence"`
	Explanation    string                 `json:"explanation"`
	Factors        map[Factor]FactorScore `json:"factors"`
	ArrivalMinutes float64                `json:"arrival_minutes"`
	EstimatedFare  float64                `json:"estimated_fare"`
	RiskScore      float64                `json:"risk_score"`
}

// ExperimentVariant alters ranking behaviour for a slice of traffic. At most
// one variant is active; selecting it is the surrounding application's concern.
type ExperimentVariant struct {
	ID        types.ID
	Name      string
	Algorithm string
}

const (
	// VariantPreferenceWeighted ranks by 2x preference score plus total.
	VariantPreferenceWeighted = "preference_weighted"
	// VariantPerformanceOptimized ranks by 2x performance score plus total.
	VariantPerformanceOptimized = "performance_optimized"
)

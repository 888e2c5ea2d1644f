// README: Weight policy; derives factor weights from urgency and accessibility needs.
package matching

// The policy is a table of tagged profiles rather than cascading conditionals,
// so each weight set is independently testable.

// baseWeights apply to ordinary requests.
var baseWeights = WeightSet{
	Distance:      0.25,
	Availability:  0.20,
	Preferences:   0.20,
	Performance:   0.15,
	Experience:    0.10,
	Compatibility: 0.05,
	Accessibility: 0.05,
}

// urgentWeights front-load distance, availability, and performance. The
// accessibility factor keeps its fixed 0.05 floor; preferences, experience,
// and compatibility share what remains.
var urgentWeights = WeightSet{
	Distance:      0.40,
	Availability:  0.30,
	Preferences:   0.05 / 3,
	Performance:   0.20,
	Experience:    0.05 / 3,
	Compatibility: 0.05 / 3,
	Accessibility: 0.05,
}

// accessibilityWeights guarantee that accessibility cannot be outranked by
// convenience factors when the passenger declared needs.
var accessibilityWeights = WeightSet{
	Distance:      0.20,
	Availability:  0.15,
	Preferences:   0.15,
	Performance:   0.10,
	Experience:    0.05,
	Compatibility: 0.05,
	Accessibility: 0.30,
}

// DeriveWeights selects the weight profile for a request. The accessibility
// override takes precedence over the urgency override when both would apply.
func DeriveWeights(req MatchRequest) WeightSet {
	if len(req.Accessibility) > 0 {
		return accessibilityWeights
	}
	if req.Urgency == UrgencyUrgent {
		return urgentWeights
	}
	return baseWeights
}

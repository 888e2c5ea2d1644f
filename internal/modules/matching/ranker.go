// README: Match ranker; orders scored candidates and applies experiment variants.
package matching

import "sort"

// defaultTopN is how many matches Rank returns when the caller passes n <= 0.
const defaultTopN = 5

// Rank orders scores for presentation and trims to the top n. With no active
// variant it sorts descending by total score; ties preserve input order. An
// unknown variant algorithm leaves the default ordering unchanged. The input
// slice is not modified.
func Rank(scores []MatchScore, variant *ExperimentVariant, n int) []MatchScore {
	if n <= 0 {
		n = defaultTopN
	}
	ranked := make([]MatchScore, len(scores))
	copy(ranked, scores)

	key := rankKey(variant)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func rankKey(variant *ExperimentVariant) func(MatchScore) float64 {
	if variant == nil {
		return func(s MatchScore) float64 { return s.Total }
	}
	switch variant.Algorithm {
	case VariantPreferenceWeighted:
		return func(s MatchScore) float64 {
			return 2*s.Factors[FactorPreferences].Score + s.Total
		}
	case VariantPerformanceOptimized:
		return func(s MatchScore) float64 {
			return 2*s.Factors[FactorPerformance].Score + s.Total
		}
	default:
		return func(s MatchScore) float64 { return s.Total }
	}
}

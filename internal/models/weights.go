package models

// PrizeWeights maps a category to its contribution per occurrence in the
// weighted digit analysis.
type PrizeWeights map[PrizeCategory]float64

// DefaultPrizeWeights encodes that top-3 draws are rarer and therefore more
// diagnostic per occurrence than starter/consolation numbers.
func DefaultPrizeWeights() PrizeWeights {
	return PrizeWeights{
		PrizeFirst:       1.0,
		PrizeSecond:      1.0,
		PrizeThird:       1.0,
		PrizeStarter:     0.3,
		PrizeConsolation: 0.3,
	}
}

// PrizeWeightsFromMap converts a weight map keyed by category tag, as found
// in configuration, into domain weights. Unknown tags are ignored.
func PrizeWeightsFromMap(raw map[string]float64) PrizeWeights {
	weights := make(PrizeWeights, len(raw))
	for tag, weight := range raw {
		category, err := ParsePrizeCategory(tag)
		if err != nil {
			continue
		}
		weights[category] = weight
	}
	return weights
}

// Weight returns the weight for a category, defaulting to 1.0 for categories
// the map does not mention.
func (w PrizeWeights) Weight(category PrizeCategory) float64 {
	if w == nil {
		return 1.0
	}
	if v, ok := w[category]; ok {
		return v
	}
	return 1.0
}

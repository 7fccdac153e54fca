package rankingdomain

import "math"

// ComputePercentile converts an absolute rank and population size into a
// "top X%" standing, rounded to one decimal place for display. Rank 1 yields
// the smallest percentile; the percentile strictly increases as rank worsens.
func ComputePercentile(rank, totalPopulation int) (float64, error) {
	if totalPopulation <= 0 || rank < 1 || rank > totalPopulation {
		return 0, &InvalidPopulationError{Rank: rank, Total: totalPopulation}
	}
	percentile := float64(rank) / float64(totalPopulation) * 100
	return math.Round(percentile*10) / 10, nil
}

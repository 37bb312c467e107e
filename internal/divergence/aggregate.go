package divergence

import (
	"fmt"
	"math"
	"strings"

	"histmatch/internal/histogram"

	"gonum.org/v1/gonum/stat"
)

// Aggregation selects how the three channel divergences of a non-gridded
// per-channel comparison are combined.
type Aggregation int

const (
	// AggregateChannels sums the red, green and blue divergences.
	AggregateChannels Aggregation = iota

	// AggregateLegacy sums red + blue + blue, leaving green out. It
	// reproduces the scores of earlier experiment runs.
	AggregateLegacy
)

func (a Aggregation) String() string {
	switch a {
	case AggregateChannels:
		return "channels"
	case AggregateLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "channels", "rgb":
		return AggregateChannels, nil
	case "legacy", "rbb":
		return AggregateLegacy, nil
	default:
		return 0, &histogram.ValidationError{
			Context: "divergence",
			Field:   "aggregation",
			Value:   s,
			Reason:  "must be channels or legacy",
		}
	}
}

// PerChannel scores two non-gridded per-channel histograms.
func PerChannel(query, support histogram.NormalizedPerChannel, agg Aggregation) float64 {
	red := KL(query.Red, support.Red)
	blue := KL(query.Blue, support.Blue)

	if agg == AggregateLegacy {
		return red + blue + blue
	}
	return red + KL(query.Green, support.Green) + blue
}

// Color scores two non-gridded joint-color histograms.
func Color(query, support histogram.NormalizedColor) float64 {
	return KL(query.Values, support.Values)
}

// ByGrids averages, over tiles, the mean of the three channel divergences
// of each tile. Tile lists of different length yield NaN.
func ByGrids(query, support []histogram.NormalizedPerChannel) float64 {
	if len(query) != len(support) || len(query) == 0 {
		return math.NaN()
	}

	scores := make([]float64, len(query))
	for i := range query {
		scores[i] = (KL(query[i].Red, support[i].Red) +
			KL(query[i].Green, support[i].Green) +
			KL(query[i].Blue, support[i].Blue)) / 3
	}
	return stat.Mean(scores, nil)
}

// ByGridsColor averages the joint-color divergence over tiles.
func ByGridsColor(query, support []histogram.NormalizedColor) float64 {
	if len(query) != len(support) || len(query) == 0 {
		return math.NaN()
	}

	scores := make([]float64, len(query))
	for i := range query {
		scores[i] = KL(query[i].Values, support[i].Values)
	}
	return stat.Mean(scores, nil)
}

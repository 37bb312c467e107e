package histogram

import (
	"gonum.org/v1/gonum/floats"
)

// Epsilon stands in for empty buckets so every normalized entry is strictly
// positive and the KL-divergence never divides by zero.
const Epsilon = 1e-20

// Normalize turns counts into a probability distribution. Empty buckets
// become Epsilon/total. An all-zero histogram becomes all Epsilon.
func Normalize(counts []int) []float64 {
	out := make([]float64, len(counts))
	for i, n := range counts {
		out[i] = float64(n)
	}

	total := floats.Sum(out)
	if total == 0 {
		for i := range out {
			out[i] = Epsilon
		}
		return out
	}

	for i, v := range out {
		p := v / total
		if p == 0 {
			p = Epsilon / total
		}
		out[i] = p
	}

	return out
}

type NormalizedPerChannel struct {
	Red   []float64
	Green []float64
	Blue  []float64
}

func (h PerChannel) Normalize() NormalizedPerChannel {
	return NormalizedPerChannel{
		Red:   Normalize(h.Red),
		Green: Normalize(h.Green),
		Blue:  Normalize(h.Blue),
	}
}

type NormalizedColor struct {
	Bins   int
	Values []float64
}

func (h Color) Normalize() NormalizedColor {
	return NormalizedColor{Bins: h.Bins, Values: Normalize(h.Counts)}
}

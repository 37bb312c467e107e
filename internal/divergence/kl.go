package divergence

import (
	"errors"
	"fmt"
	"math"
)

var ErrLengthMismatch = errors.New("divergence: length mismatch")

// KL returns sum(q[i] * log2(q[i]/s[i])). Sequences of different length
// yield NaN.
func KL(query, support []float64) float64 {
	if len(query) != len(support) {
		return math.NaN()
	}

	var total float64
	for i, q := range query {
		total += q * math.Log2(q/support[i])
	}
	return total
}

// KLChecked is KL with the length precondition reported as an error.
func KLChecked(query, support []float64) (float64, error) {
	if len(query) != len(support) {
		return 0, fmt.Errorf("%w: query %d vs support %d", ErrLengthMismatch, len(query), len(support))
	}
	return KL(query, support), nil
}

// IsAnomalous reports whether a divergence score is NaN or infinite.
func IsAnomalous(score float64) bool {
	return math.IsNaN(score) || math.IsInf(score, 0)
}

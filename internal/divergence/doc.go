// Package divergence scores how far a query distribution is from a support
// distribution using base-2 KL-divergence, alone or aggregated over color
// channels and spatial tiles.
//
// Inputs are expected to be strictly positive (see histogram.Normalize).
// Non-finite results are returned as-is so that a broken comparison shows
// up as NaN or Inf instead of a plausible low score.
package divergence

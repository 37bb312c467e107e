package histogram

// Color is a joint (red, green, blue) histogram of Bins³ cells stored
// flat; cell (i, j, k) lives at (i*Bins+j)*Bins+k.
//
// The cells are NOT co-occurrence counts: cell (i, j, k) holds
// red[i]+green[j]+blue[k] of the per-channel histogram. Retrieval scores
// depend on this exact formula, keep it.
type Color struct {
	Bins   int
	Counts []int
}

// ColorBins returns the number of cells a joint histogram built with
// interval has.
func ColorBins(interval int) int {
	bins := ChannelBins(interval)
	return bins * bins * bins
}

// Color combines the three channel histograms into the additive joint
// histogram. Cost is O(Bins³).
func (h PerChannel) Color() Color {
	bins := h.Bins()
	counts := make([]int, bins*bins*bins)

	idx := 0
	for i := 0; i < bins; i++ {
		for j := 0; j < bins; j++ {
			rg := h.Red[i] + h.Green[j]
			for k := 0; k < bins; k++ {
				counts[idx] = rg + h.Blue[k]
				idx++
			}
		}
	}

	return Color{Bins: bins, Counts: counts}
}

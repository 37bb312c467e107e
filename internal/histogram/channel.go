package histogram

// PerChannel holds independent intensity counts for the red, green and blue
// channels. All three slices have the same length, 256/interval; bucket i
// covers levels [i*interval, (i+1)*interval).
type PerChannel struct {
	Red   []int
	Green []int
	Blue  []int
}

// Bins returns the number of buckets per channel.
func (h PerChannel) Bins() int {
	return len(h.Red)
}

// ChannelBins returns the number of buckets per channel for interval.
func ChannelBins(interval int) int {
	return Levels / interval
}

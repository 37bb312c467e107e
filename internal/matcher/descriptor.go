package matcher

import (
	"fmt"
	"math"

	"histmatch/internal/divergence"
	"histmatch/internal/histogram"
	"histmatch/internal/opencv"
)

// Item is a decoded image and the identifier used to judge a match.
type Item struct {
	ID    string
	Image *histogram.Image
}

// Descriptor holds the normalized histogram(s) of one image under a Config.
// Only the fields for the config's mode and grid setting are populated.
type Descriptor struct {
	ID string

	mode Mode
	grid int

	channels     histogram.NormalizedPerChannel
	color        histogram.NormalizedColor
	channelTiles []histogram.NormalizedPerChannel
	colorTiles   []histogram.NormalizedColor
}

// Describe computes the descriptor of item. c must be valid.
func (c Config) Describe(item Item) (Descriptor, error) {
	if item.Image == nil {
		return Descriptor{}, fmt.Errorf("image %q is nil", item.ID)
	}

	if c.StrictGrid && c.Gridded() {
		if err := histogram.CheckGridDivides(item.Image, c.GridCount); err != nil {
			return Descriptor{}, err
		}
	}

	d := Descriptor{ID: item.ID, mode: c.Mode, grid: c.GridCount}

	switch {
	case c.Mode == PerChannel && !c.Gridded():
		h, err := opencv.PerChannelHistogram(item.Image, c.Interval)
		if err != nil {
			return Descriptor{}, err
		}
		d.channels = h.Normalize()

	case c.Mode == PerChannel:
		tiles, err := opencv.PerChannelByGrids(item.Image, c.Interval, c.GridCount)
		if err != nil {
			return Descriptor{}, err
		}
		d.channelTiles = tiles

	case c.Mode == JointColor && !c.Gridded():
		h, err := opencv.ColorHistogram(item.Image, c.Interval)
		if err != nil {
			return Descriptor{}, err
		}
		d.color = h.Normalize()

	default:
		tiles, err := opencv.ColorByGrids(item.Image, c.Interval, c.GridCount)
		if err != nil {
			return Descriptor{}, err
		}
		d.colorTiles = tiles
	}

	return d, nil
}

// Distance is the divergence of query from support. Descriptors built
// under a different mode or grid than c score NaN.
func (c Config) Distance(query, support Descriptor) float64 {
	if query.mode != c.Mode || support.mode != c.Mode ||
		query.grid != c.GridCount || support.grid != c.GridCount {
		return math.NaN()
	}

	switch {
	case c.Mode == PerChannel && !c.Gridded():
		return divergence.PerChannel(query.channels, support.channels, c.Aggregation)
	case c.Mode == PerChannel:
		return divergence.ByGrids(query.channelTiles, support.channelTiles)
	case c.Mode == JointColor && !c.Gridded():
		return divergence.Color(query.color, support.color)
	default:
		return divergence.ByGridsColor(query.colorTiles, support.colorTiles)
	}
}

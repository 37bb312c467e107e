package matcher

import (
	"fmt"
	"strings"

	"histmatch/internal/divergence"
	"histmatch/internal/histogram"
)

// Mode selects which histogram describes an image.
type Mode int

const (
	PerChannel Mode = iota
	JointColor
)

func (m Mode) String() string {
	switch m {
	case PerChannel:
		return "per-channel"
	case JointColor:
		return "joint-color"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the prompt shorthands p and c as well as the long names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "per-channel", "channel":
		return PerChannel, nil
	case "c", "joint-color", "color":
		return JointColor, nil
	default:
		return 0, &histogram.ValidationError{
			Context: "matcher",
			Field:   "mode",
			Value:   s,
			Reason:  "must be p (per-channel) or c (joint-color)",
		}
	}
}

// DefaultMaxColorBins caps the cells of one joint-color descriptor
// (bins³ per tile times tiles). 128³ fits, 256³ needs an explicit raise.
const DefaultMaxColorBins = 1 << 21

type Config struct {
	Mode     Mode
	Interval int

	// GridCount splits images into GridCount x GridCount tiles. 0 disables
	// the spatial grid.
	GridCount int

	// Aggregation combines channel scores of non-gridded per-channel runs.
	Aggregation divergence.Aggregation

	// StrictGrid rejects images whose sides GridCount does not divide
	// instead of dropping the edge rows and columns.
	StrictGrid bool

	MaxColorBins int

	// Workers > 1 spreads descriptor extraction and support rows over a
	// worker pool. Results are identical to a sequential run.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Mode:         PerChannel,
		Interval:     1,
		Aggregation:  divergence.AggregateChannels,
		MaxColorBins: DefaultMaxColorBins,
		Workers:      1,
	}
}

func (c Config) Gridded() bool {
	return c.GridCount > 0
}

func (c Config) Validate() error {
	if c.Mode != PerChannel && c.Mode != JointColor {
		return &histogram.ValidationError{
			Context: "matcher",
			Field:   "mode",
			Value:   int(c.Mode),
			Reason:  "unknown mode",
		}
	}

	if err := histogram.ValidateInterval(c.Interval); err != nil {
		return err
	}

	if err := histogram.ValidateGridCount(c.GridCount); err != nil {
		return err
	}

	if c.Aggregation != divergence.AggregateChannels && c.Aggregation != divergence.AggregateLegacy {
		return &histogram.ValidationError{
			Context: "matcher",
			Field:   "aggregation",
			Value:   int(c.Aggregation),
			Reason:  "unknown aggregation",
		}
	}

	if c.Workers < 0 {
		return &histogram.ValidationError{
			Context: "matcher",
			Field:   "workers",
			Value:   c.Workers,
			Reason:  "must not be negative",
		}
	}

	if c.Mode == JointColor && c.MaxColorBins > 0 {
		tiles := 1
		if c.Gridded() {
			tiles = c.GridCount * c.GridCount
		}
		if cells := histogram.ColorBins(c.Interval) * tiles; cells > c.MaxColorBins {
			return &histogram.ValidationError{
				Context: "matcher",
				Field:   "interval",
				Value:   c.Interval,
				Reason: fmt.Sprintf("joint-color descriptor needs %d cells, limit is %d; use a coarser interval",
					cells, c.MaxColorBins),
			}
		}
	}

	return nil
}

package opencv

import (
	"fmt"
	"image"
	"math"

	"histmatch/internal/histogram"

	"gocv.io/x/gocv"
)

// Mat channel indexes of a BGR image.
const (
	blueChannel  = 0
	greenChannel = 1
	redChannel   = 2
)

// maxExactCount is the largest bucket count a CV_32F histogram holds exactly.
const maxExactCount = 1 << 24

// PerChannelHistogram counts, per channel, how many pixels of img take each
// intensity. With interval > 1 the 256 levels are merged into 256/interval
// buckets; bucket i covers levels [i*interval, (i+1)*interval).
func PerChannelHistogram(img *histogram.Image, interval int) (histogram.PerChannel, error) {
	if err := histogram.ValidateInterval(interval); err != nil {
		return histogram.PerChannel{}, err
	}

	mat, err := ImageToMat(img)
	if err != nil {
		return histogram.PerChannel{}, err
	}
	defer mat.Close()

	return channelHistogram(mat, interval)
}

// ColorHistogram builds the additive joint histogram of img.
func ColorHistogram(img *histogram.Image, interval int) (histogram.Color, error) {
	channels, err := PerChannelHistogram(img, interval)
	if err != nil {
		return histogram.Color{}, err
	}
	return channels.Color(), nil
}

// PerChannelByGrids returns one normalized per-channel histogram per tile,
// tiles in row-major order.
func PerChannelByGrids(img *histogram.Image, interval, grid int) ([]histogram.NormalizedPerChannel, error) {
	if err := histogram.ValidateInterval(interval); err != nil {
		return nil, err
	}
	if err := histogram.ValidateGridCount(grid); err != nil {
		return nil, err
	}

	mat, err := ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	out := make([]histogram.NormalizedPerChannel, 0, grid*grid)
	err = eachTile(mat, grid, func(i int, tile gocv.Mat) error {
		h, err := channelHistogram(tile, interval)
		if err != nil {
			return fmt.Errorf("tile %d: %w", i, err)
		}
		out = append(out, h.Normalize())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ColorByGrids returns one normalized joint-color histogram per tile.
func ColorByGrids(img *histogram.Image, interval, grid int) ([]histogram.NormalizedColor, error) {
	if err := histogram.ValidateInterval(interval); err != nil {
		return nil, err
	}
	if err := histogram.ValidateGridCount(grid); err != nil {
		return nil, err
	}

	mat, err := ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	out := make([]histogram.NormalizedColor, 0, grid*grid)
	err = eachTile(mat, grid, func(i int, tile gocv.Mat) error {
		h, err := channelHistogram(tile, interval)
		if err != nil {
			return fmt.Errorf("tile %d: %w", i, err)
		}
		out = append(out, h.Color().Normalize())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// eachTile calls fn with every grid x grid region of mat in row-major
// order. Regions share mat's pixels and are closed after fn returns.
func eachTile(mat gocv.Mat, grid int, fn func(i int, tile gocv.Mat) error) error {
	if err := validateMat(mat, "eachTile"); err != nil {
		return err
	}

	tileW, tileH, err := histogram.TileSize(mat.Cols(), mat.Rows(), grid)
	if err != nil {
		return err
	}

	for r := 0; r < grid; r++ {
		for c := 0; c < grid; c++ {
			tile := mat.Region(image.Rect(c*tileW, r*tileH, (c+1)*tileW, (r+1)*tileH))
			err := fn(r*grid+c, tile)
			tile.Close()
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func channelHistogram(mat gocv.Mat, interval int) (histogram.PerChannel, error) {
	if err := validateMat(mat, "CalcHist"); err != nil {
		return histogram.PerChannel{}, err
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return histogram.PerChannel{}, fmt.Errorf("CalcHist needs an 8-bit BGR Mat, got %v", mat.Type())
	}
	if mat.Rows()*mat.Cols() > maxExactCount {
		return histogram.PerChannel{}, fmt.Errorf("image has %d pixels, histogram counts are exact up to %d",
			mat.Rows()*mat.Cols(), maxExactCount)
	}

	bins := histogram.ChannelBins(interval)

	red, err := calcChannel(mat, redChannel, bins)
	if err != nil {
		return histogram.PerChannel{}, err
	}
	green, err := calcChannel(mat, greenChannel, bins)
	if err != nil {
		return histogram.PerChannel{}, err
	}
	blue, err := calcChannel(mat, blueChannel, bins)
	if err != nil {
		return histogram.PerChannel{}, err
	}

	return histogram.PerChannel{Red: red, Green: green, Blue: blue}, nil
}

func calcChannel(mat gocv.Mat, channel, bins int) ([]int, error) {
	hist := gocv.NewMat()
	defer hist.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	err := gocv.CalcHist([]gocv.Mat{mat}, []int{channel}, mask, &hist, []int{bins}, []float64{0, histogram.Levels}, false)
	if err != nil {
		return nil, fmt.Errorf("histogram calculation failed for channel %d: %w", channel, err)
	}

	counts := make([]int, bins)
	for i := range counts {
		counts[i] = int(math.Round(float64(hist.GetFloatAt(i, 0))))
	}

	return counts, nil
}

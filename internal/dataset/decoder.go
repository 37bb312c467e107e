package dataset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"histmatch/internal/histogram"
	"histmatch/internal/opencv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns encoded file contents into an RGB image.
type Decoder interface {
	Decode(data []byte) (*histogram.Image, error)
}

// StdDecoder decodes with the image package registry (png, jpeg, gif, bmp,
// tiff, webp).
type StdDecoder struct{}

func (StdDecoder) Decode(data []byte) (*histogram.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with standard library: %w", err)
	}
	return histogram.FromImage(img)
}

// NewDecoder returns the decoder backend called name: "std" (default) or
// "opencv".
func NewDecoder(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "std":
		return StdDecoder{}, nil
	case "opencv":
		return opencv.Decoder{}, nil
	default:
		return nil, &histogram.ValidationError{
			Context: "dataset",
			Field:   "decoder",
			Value:   name,
			Reason:  "must be std or opencv",
		}
	}
}

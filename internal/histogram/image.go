package histogram

import (
	"fmt"
	"image"
	"image/color"
)

const (
	// Channels is the number of color channels per pixel: red, green, blue.
	Channels = 3

	// Levels is the number of intensity values of an 8-bit channel.
	Levels = 256
)

// Image is a decoded RGB image with 8-bit samples. Pixel (row, col) starts
// at Pix[(row*Width+col)*Channels]; channel 0 is red, 1 green, 2 blue.
//
// Image implements image.Image so it can be handed to encoders and
// resamplers without copying.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, &ValidationError{
			Context: "NewImage",
			Field:   "dimensions",
			Value:   fmt.Sprintf("%dx%d", width, height),
			Reason:  "width and height must be positive",
		}
	}

	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// FromPixels wraps an existing row-major RGB buffer.
func FromPixels(width, height int, pix []uint8) (*Image, error) {
	img := &Image{Width: width, Height: height, Pix: pix}
	if err := validateImage(img, "FromPixels"); err != nil {
		return nil, err
	}
	return img, nil
}

// FromImage converts any decoded image into an RGB Image. Alpha is dropped
// without premultiplying, so an RGBA source keeps its stored color values.
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := src.Bounds()
	img, err := NewImage(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	switch typed := src.(type) {
	case *Image:
		copy(img.Pix, typed.Pix)
	case *image.NRGBA:
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				c := typed.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				img.Set(y, x, c.R, c.G, c.B)
			}
		}
	case *image.RGBA:
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				c := typed.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				img.Set(y, x, c.R, c.G, c.B)
			}
		}
	default:
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				img.Set(y, x, c.R, c.G, c.B)
			}
		}
	}

	return img, nil
}

// Pixel returns the red, green and blue samples at (row, col).
func (img *Image) Pixel(row, col int) (r, g, b uint8) {
	i := (row*img.Width + col) * Channels
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Validate checks the dimensions and buffer length of img.
func (img *Image) Validate() error {
	return validateImage(img, "image")
}

func (img *Image) Set(row, col int, r, g, b uint8) {
	i := (row*img.Width + col) * Channels
	img.Pix[i] = r
	img.Pix[i+1] = g
	img.Pix[i+2] = b
}

func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

func (img *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return color.RGBA{}
	}
	r, g, b := img.Pixel(y, x)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

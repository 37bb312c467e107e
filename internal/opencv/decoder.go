package opencv

import (
	"fmt"

	"histmatch/internal/histogram"

	"gocv.io/x/gocv"
)

// Decoder decodes encoded images with OpenCV's imdecode.
type Decoder struct{}

func (Decoder) Decode(data []byte) (*histogram.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no image data")
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}
	defer mat.Close()

	return MatToImage(mat)
}

// MatToImage converts an 8-bit gray, BGR or BGRA Mat into an RGB image.
func MatToImage(mat gocv.Mat) (*histogram.Image, error) {
	if err := validateMat(mat, "MatToImage"); err != nil {
		return nil, err
	}

	// regions are not continuous; ToBytes needs a packed buffer
	if !mat.IsContinuous() {
		packed := mat.Clone()
		defer packed.Close()
		mat = packed
	}

	rows := mat.Rows()
	cols := mat.Cols()
	channels := mat.Channels()

	var order [3]int
	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		order = [3]int{0, 0, 0}
	case gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		order = [3]int{2, 1, 0}
	default:
		return nil, fmt.Errorf("unsupported Mat type %v with %d channels", mat.Type(), channels)
	}

	data := mat.ToBytes()
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("Mat data has %d bytes, want %d", len(data), rows*cols*channels)
	}

	pix := make([]uint8, rows*cols*histogram.Channels)
	for p := 0; p < rows*cols; p++ {
		src := data[p*channels : (p+1)*channels]
		dst := pix[p*histogram.Channels : (p+1)*histogram.Channels]
		dst[0] = src[order[0]]
		dst[1] = src[order[1]]
		dst[2] = src[order[2]]
	}

	return histogram.FromPixels(cols, rows, pix)
}

// ImageToMat builds a BGR Mat from an RGB image. The caller closes it.
func ImageToMat(img *histogram.Image) (gocv.Mat, error) {
	if err := img.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	bgr := make([]byte, len(img.Pix))
	for i := 0; i < len(img.Pix); i += histogram.Channels {
		bgr[i] = img.Pix[i+2]
		bgr[i+1] = img.Pix[i+1]
		bgr[i+2] = img.Pix[i]
	}

	view, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create Mat: %w", err)
	}
	defer view.Close()

	// view may alias bgr; the clone owns its pixels
	return view.Clone(), nil
}

func validateMat(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}

	return nil
}

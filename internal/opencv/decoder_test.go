package opencv

import (
	"testing"

	"histmatch/internal/histogram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func testImage(t *testing.T) *histogram.Image {
	t.Helper()
	img, err := histogram.NewImage(3, 2)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(y, x, uint8(10*x), uint8(100+y), uint8(200+x+y))
		}
	}
	return img
}

func TestImageToMatRoundTrip(t *testing.T) {
	img := testImage(t)

	mat, err := ImageToMat(img)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 2, mat.Rows())
	assert.Equal(t, 3, mat.Cols())
	// OpenCV keeps channels in BGR order
	assert.Equal(t, uint8(200+1+1), mat.GetUCharAt3(1, 1, 0))
	assert.Equal(t, uint8(10), mat.GetUCharAt3(1, 1, 2))

	back, err := MatToImage(mat)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, back.Pix)
}

func TestDecodePNG(t *testing.T) {
	img := testImage(t)
	mat, err := ImageToMat(img)
	require.NoError(t, err)
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	require.NoError(t, err)
	defer buf.Close()

	decoded, err := Decoder{}.Decode(buf.GetBytes())
	require.NoError(t, err)
	assert.Equal(t, img.Width, decoded.Width)
	assert.Equal(t, img.Height, decoded.Height)
	assert.Equal(t, img.Pix, decoded.Pix)
}

func TestImageToMatRejectsMalformedImage(t *testing.T) {
	_, err := ImageToMat(nil)
	assert.Error(t, err)

	_, err = ImageToMat(&histogram.Image{Width: 3, Height: 2, Pix: make([]uint8, 17)})
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decoder{}.Decode(nil)
	assert.Error(t, err)

	_, err = Decoder{}.Decode([]byte("not an image"))
	assert.Error(t, err)
}

package histogram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func solidImage(t *testing.T, width, height int, r, g, b uint8) *Image {
	t.Helper()
	img, err := NewImage(width, height)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(y, x, r, g, b)
		}
	}
	return img
}

package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileSizeFloors(t *testing.T) {
	w, h, err := TileSize(10, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 3, h)

	w, h, err = TileSize(96, 64, 4)
	require.NoError(t, err)
	assert.Equal(t, 24, w)
	assert.Equal(t, 16, h)
}

func TestTileSizeRejectsOversizedGrid(t *testing.T) {
	_, _, err := TileSize(4, 2, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, _, err = TileSize(4, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCheckGridDivides(t *testing.T) {
	img := solidImage(t, 10, 10, 0, 0, 0)
	assert.NoError(t, CheckGridDivides(img, 5))
	assert.NoError(t, CheckGridDivides(img, 0))
	assert.ErrorIs(t, CheckGridDivides(img, 3), ErrInvalidConfig)
}

package dataset

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"histmatch/internal/histogram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestIDFromPath(t *testing.T) {
	assert.Equal(t, "cat", IDFromPath("/data/1/cat.png"))
	assert.Equal(t, "cat.large", IDFromPath("cat.large.jpg"))
	assert.Equal(t, "noext", IDFromPath("dir/noext"))
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("a.PNG"))
	assert.True(t, SupportedExtension("a.jpeg"))
	assert.True(t, SupportedExtension("a.webp"))
	assert.False(t, SupportedExtension("notes.txt"))
	assert.False(t, SupportedExtension("README"))
}

func TestLoadDirSortsAndSkips(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "zebra.png", 4, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	writePNG(t, dir, "apple.png", 2, 2, color.NRGBA{R: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	entries, err := LoadDir(context.Background(), dir, Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "apple", entries[0].ID)
	assert.Equal(t, "zebra", entries[1].ID)
	assert.Equal(t, filepath.Join(dir, "apple.png"), entries[0].Path)

	r, g, b := entries[0].Image.Pixel(1, 1)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	assert.Equal(t, 4, entries[1].Image.Width)
	assert.Equal(t, 3, entries[1].Image.Height)
}

func TestLoadDirResize(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 7, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	entries, err := LoadDir(context.Background(), dir, Options{Resize: 8})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Image.Width)
	assert.Equal(t, 8, entries[0].Image.Height)
}

func TestLoadDirDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644))

	_, err := LoadDir(context.Background(), dir, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadDirCanceled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 2, 2, color.NRGBA{A: 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDir(ctx, dir, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDecoder(t *testing.T) {
	d, err := NewDecoder("")
	require.NoError(t, err)
	assert.IsType(t, StdDecoder{}, d)

	_, err = NewDecoder("OpenCV")
	require.NoError(t, err)

	_, err = NewDecoder("magick")
	assert.ErrorIs(t, err, histogram.ErrInvalidConfig)
}

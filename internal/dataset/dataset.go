package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"histmatch/internal/histogram"
	"histmatch/internal/logger"

	"github.com/nfnt/resize"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Entry is one decoded image of a dataset directory.
type Entry struct {
	// ID is the file name without extension. Support and query images of
	// the same subject share it.
	ID   string
	Path string

	Image *histogram.Image
}

type Options struct {
	Decoder Decoder

	// Resize scales every image to Resize x Resize before use. 0 keeps the
	// decoded size.
	Resize uint

	// Concurrency bounds parallel file decoding. <= 0 means GOMAXPROCS.
	Concurrency int

	Logger logger.Logger
}

// IDFromPath strips directory and extension from path.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func SupportedExtension(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// LoadDir decodes every supported image directly inside dir. Entries are
// sorted by ID, then path.
func LoadDir(ctx context.Context, dir string, opts Options) ([]Entry, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = StdDecoder{}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	start := time.Now()

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	files := lo.Filter(dirEntries, func(e os.DirEntry, _ int) bool {
		return e.Type().IsRegular() && SupportedExtension(e.Name())
	})

	entries := make([]Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			path := filepath.Join(dir, f.Name())
			img, err := loadFile(path, decoder, opts.Resize)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			entries[i] = Entry{ID: IDFromPath(path), Path: path, Image: img}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Dataset", err, logger.Fields{"dir": dir})
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(a.ID, b.ID); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	for i := 1; i < len(entries); i++ {
		if entries[i].ID == entries[i-1].ID {
			log.Warning("Dataset", "duplicate image identifier", logger.Fields{
				"id":    entries[i].ID,
				"first": entries[i-1].Path,
				"other": entries[i].Path,
			})
		}
	}

	log.Info("Dataset", "dataset loaded", logger.Fields{
		"dir":       dir,
		"images":    len(entries),
		"skipped":   len(dirEntries) - len(files),
		"load_time": time.Since(start),
	})

	return entries, nil
}

func loadFile(path string, decoder Decoder, side uint) (*histogram.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	img, err := decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	if side == 0 {
		return img, nil
	}

	return histogram.FromImage(resize.Resize(side, side, img, resize.Bicubic))
}

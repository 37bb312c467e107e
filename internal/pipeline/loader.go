package pipeline

import (
	"context"
	"sync"

	"histmatch/internal/dataset"
	"histmatch/internal/logger"
	"histmatch/internal/matcher"

	"github.com/samber/lo"
)

type setLoader struct {
	opts   dataset.Options
	logger logger.Logger

	mu    sync.Mutex
	cache map[string][]matcher.Item
}

func (l *setLoader) LoadSet(ctx context.Context, dir string) ([]matcher.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if items, ok := l.cache[dir]; ok {
		l.logger.Debug("SetLoader", "image set cache hit", logger.Fields{
			"dir":    dir,
			"images": len(items),
		})
		return items, nil
	}

	entries, err := dataset.LoadDir(ctx, dir, l.opts)
	if err != nil {
		return nil, err
	}

	items := lo.Map(entries, func(e dataset.Entry, _ int) matcher.Item {
		return matcher.Item{ID: e.ID, Image: e.Image}
	})
	l.cache[dir] = items

	return items, nil
}

func (l *setLoader) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"histmatch/internal/config"
	"histmatch/internal/dataset"
	"histmatch/internal/logger"
	"histmatch/internal/matcher"

	"github.com/google/uuid"
)

type SetLoader interface {
	LoadSet(ctx context.Context, dir string) ([]matcher.Item, error)
}

type Runner interface {
	Run(ctx context.Context, req RunRequest) (*matcher.Report, error)
}

// RunRequest selects the query set (counted from 1) and the matching
// configuration of one run.
type RunRequest struct {
	QuerySet int
	Match    matcher.Config
}

type Coordinator struct {
	mu        sync.Mutex
	cfg       config.Config
	logger    logger.Logger
	loader    SetLoader
	processor *matchProcessor
}

func NewCoordinator(cfg config.Config, log logger.Logger) (*Coordinator, error) {
	if log == nil {
		log = logger.Nop()
	}

	decoder, err := dataset.NewDecoder(cfg.Dataset.Decoder)
	if err != nil {
		return nil, err
	}

	coord := &Coordinator{
		cfg:    cfg,
		logger: log,
		loader: &setLoader{
			opts: dataset.Options{
				Decoder:     decoder,
				Resize:      cfg.Dataset.Resize,
				Concurrency: cfg.Workers,
				Logger:      log,
			},
			logger: log,
			cache:  make(map[string][]matcher.Item),
		},
		processor: &matchProcessor{},
	}

	log.Info("Coordinator", "initialized", logger.Fields{
		"support": cfg.SupportDir(),
		"decoder": cfg.Dataset.Decoder,
		"resize":  cfg.Dataset.Resize,
	})
	return coord, nil
}

// LoadSet returns the images of dir, loading them on first use.
func (c *Coordinator) LoadSet(ctx context.Context, dir string) ([]matcher.Item, error) {
	return c.loader.LoadSet(ctx, dir)
}

// Run matches the support set against the requested query set.
func (c *Coordinator) Run(ctx context.Context, req RunRequest) (*matcher.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	runID := uuid.NewString()
	log := c.logger.With(logger.Fields{"run_id": runID})
	start := time.Now()

	queryDir, err := c.cfg.QueryDir(req.QuerySet)
	if err != nil {
		return nil, err
	}

	supports, err := c.loader.LoadSet(ctx, c.cfg.SupportDir())
	if err != nil {
		log.Error("Coordinator", err, logger.Fields{"operation": "load_support"})
		return nil, fmt.Errorf("failed to load support set: %w", err)
	}

	queries, err := c.loader.LoadSet(ctx, queryDir)
	if err != nil {
		log.Error("Coordinator", err, logger.Fields{"operation": "load_queries"})
		return nil, fmt.Errorf("failed to load query set %d: %w", req.QuerySet, err)
	}

	report, err := c.processor.Process(ctx, req.Match, log, supports, queries)
	if err != nil {
		log.Error("Coordinator", err, logger.Fields{"operation": "match"})
		return nil, err
	}
	report.RunID = runID

	log.Info("Coordinator", "run completed", logger.Fields{
		"query_set": req.QuerySet,
		"mode":      req.Match.Mode.String(),
		"interval":  req.Match.Interval,
		"grid":      req.Match.GridCount,
		"accuracy":  report.Summary(),
		"run_time":  time.Since(start),
	})

	return report, nil
}

// Shutdown drops every cached image set.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.loader.(*setLoader); ok {
		l.reset()
	}
	c.logger.Info("Coordinator", "shutdown completed", nil)
}

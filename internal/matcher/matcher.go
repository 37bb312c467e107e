package matcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"histmatch/internal/divergence"
	"histmatch/internal/logger"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/samber/lo"
)

var ErrNoQueries = errors.New("matcher: query set is empty")

type Matcher struct {
	cfg    Config
	logger logger.Logger
	pool   *workerpool.Pool
}

func New(cfg Config, log logger.Logger) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("matcher config: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	m := &Matcher{cfg: cfg, logger: log}
	if cfg.Workers > 1 {
		m.pool = workerpool.New(cfg.Workers)
	}

	if cfg.Mode == PerChannel && !cfg.Gridded() && cfg.Aggregation == divergence.AggregateLegacy {
		log.Warning("Matcher", "legacy aggregation selected: green channel is ignored and blue counted twice", nil)
	}

	return m, nil
}

func (m *Matcher) Config() Config {
	return m.cfg
}

// Close stops the worker pool, if any.
func (m *Matcher) Close() {
	if m.pool != nil {
		m.pool.Close()
	}
}

func (m *Matcher) parallelFor(n int, fn func(start, end int)) {
	if m.pool == nil {
		fn(0, n)
		return
	}
	m.pool.ParallelFor(n, fn)
}

// DescribeAll computes descriptors for items, in order.
func (m *Matcher) DescribeAll(ctx context.Context, items []Item) ([]Descriptor, error) {
	out := make([]Descriptor, len(items))
	errs := make([]error, len(items))

	m.parallelFor(len(items), func(start, end int) {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				continue
			}
			d, err := m.cfg.Describe(items[i])
			if err != nil {
				errs[i] = fmt.Errorf("describe %s: %w", items[i].ID, err)
				continue
			}
			out[i] = d
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Match pairs every support descriptor with its lowest-divergence query.
// Ties keep the query seen first.
func (m *Matcher) Match(ctx context.Context, supports, queries []Descriptor) (*Report, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	start := time.Now()
	results := make([]MatchResult, len(supports))
	anomalies := make([]int, len(supports))

	m.parallelFor(len(supports), func(first, last int) {
		for i := first; i < last; i++ {
			if ctx.Err() != nil {
				return
			}
			results[i], anomalies[i] = m.bestMatch(supports[i], queries)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := newReport(m.cfg, results, lo.Sum(anomalies), time.Since(start))

	m.logger.Info("Matcher", "matching completed", logger.Fields{
		"mode":      m.cfg.Mode.String(),
		"interval":  m.cfg.Interval,
		"grid":      m.cfg.GridCount,
		"supports":  len(supports),
		"queries":   len(queries),
		"accuracy":  report.Summary(),
		"anomalies": report.Anomalies,
		"elapsed":   report.Elapsed,
	})

	return report, nil
}

// Run describes both sets and matches them.
func (m *Matcher) Run(ctx context.Context, supports, queries []Item) (*Report, error) {
	supportDescs, err := m.DescribeAll(ctx, supports)
	if err != nil {
		return nil, fmt.Errorf("support set: %w", err)
	}

	queryDescs, err := m.DescribeAll(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("query set: %w", err)
	}

	return m.Match(ctx, supportDescs, queryDescs)
}

func (m *Matcher) bestMatch(support Descriptor, queries []Descriptor) (MatchResult, int) {
	result := MatchResult{SupportID: support.ID, Score: math.Inf(1)}
	anomalies := 0

	for _, query := range queries {
		score := m.cfg.Distance(query, support)
		if divergence.IsAnomalous(score) {
			anomalies++
			m.logger.Warning("Matcher", "non-finite divergence", logger.Fields{
				"support": support.ID,
				"query":   query.ID,
				"score":   fmt.Sprint(score),
			})
			continue
		}
		if score < result.Score {
			result.Score = score
			result.QueryID = query.ID
		}
	}

	return result, anomalies
}

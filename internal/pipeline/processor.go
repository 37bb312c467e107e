package pipeline

import (
	"context"
	"fmt"

	"histmatch/internal/logger"
	"histmatch/internal/matcher"
)

type matchProcessor struct{}

func (p *matchProcessor) Process(ctx context.Context, cfg matcher.Config, log logger.Logger, supports, queries []matcher.Item) (*matcher.Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m, err := matcher.New(cfg, log)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	report, err := m.Run(ctx, supports, queries)
	if err != nil {
		return nil, fmt.Errorf("matching failed: %w", err)
	}

	log.Debug("MatchProcessor", "processing completed", logger.Fields{
		"supports":  len(supports),
		"queries":   len(queries),
		"anomalies": report.Anomalies,
	})

	return report, nil
}

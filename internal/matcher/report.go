package matcher

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// MatchResult pairs a support image with its lowest-divergence query.
type MatchResult struct {
	SupportID string

	// QueryID is empty when no query scored a finite divergence.
	QueryID string

	Score float64
}

// Correct reports whether the support image retrieved itself.
func (r MatchResult) Correct() bool {
	return r.QueryID != "" && r.QueryID == r.SupportID
}

// Report is the outcome of one matching run.
type Report struct {
	RunID   string
	Config  Config
	Results []MatchResult

	Correct int
	Total   int

	// Anomalies counts support/query pairs whose divergence was NaN or Inf.
	Anomalies int

	Elapsed time.Duration
}

func newReport(cfg Config, results []MatchResult, anomalies int, elapsed time.Duration) *Report {
	return &Report{
		Config:    cfg,
		Results:   results,
		Correct:   lo.CountBy(results, func(r MatchResult) bool { return r.Correct() }),
		Total:     len(results),
		Anomalies: anomalies,
		Elapsed:   elapsed,
	}
}

// Accuracy is the top-1 retrieval rate, 0 for an empty run.
func (r *Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Summary renders the accuracy as correct/total.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d", r.Correct, r.Total)
}

// Misses returns the results whose best query was not the support image.
func (r *Report) Misses() []MatchResult {
	return lo.Filter(r.Results, func(m MatchResult, _ int) bool { return !m.Correct() })
}

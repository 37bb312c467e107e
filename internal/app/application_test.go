package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"histmatch/internal/config"
	"histmatch/internal/histogram"
	"histmatch/internal/logger"
	"histmatch/internal/matcher"
	"histmatch/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	requests []pipeline.RunRequest
	report   *matcher.Report
	err      error
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.RunRequest) (*matcher.Report, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type shutdownCounter struct{ calls int }

func (s *shutdownCounter) Shutdown() { s.calls++ }

func newTestApp(t *testing.T, input string, runner pipeline.Runner, verbose bool) (*Application, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	defaults, err := cfg.MatchConfig()
	require.NoError(t, err)

	var out bytes.Buffer
	app := newApplication(cfg, defaults, runner, logger.Nop(), Options{
		In:      strings.NewReader(input),
		Out:     &out,
		Verbose: verbose,
	})
	return app, &out
}

func sampleReport() *matcher.Report {
	return &matcher.Report{
		Results: []matcher.MatchResult{
			{SupportID: "a", QueryID: "a"},
			{SupportID: "b", QueryID: "a", Score: 1.5},
		},
		Correct: 1,
		Total:   2,
	}
}

func TestRunInteractive(t *testing.T) {
	runner := &fakeRunner{report: sampleReport()}
	app, out := newTestApp(t, "2\nc\n8\n4\n1\np\n\n\n", runner, false)

	require.NoError(t, app.RunInteractive(context.Background()))
	require.Len(t, runner.requests, 2)

	first := runner.requests[0]
	assert.Equal(t, 2, first.QuerySet)
	assert.Equal(t, matcher.JointColor, first.Match.Mode)
	assert.Equal(t, 8, first.Match.Interval)
	assert.Equal(t, 4, first.Match.GridCount)

	second := runner.requests[1]
	assert.Equal(t, 1, second.QuerySet)
	assert.Equal(t, matcher.PerChannel, second.Match.Mode)
	assert.Equal(t, 1, second.Match.Interval)
	assert.Equal(t, 0, second.Match.GridCount)

	assert.Equal(t, 2, strings.Count(out.String(), "accuracy: 1/2\n"))
	assert.NotContains(t, out.String(), "miss:")
}

func TestRunInteractiveReprompts(t *testing.T) {
	runner := &fakeRunner{report: sampleReport()}
	input := strings.Join([]string{
		// query set out of range
		"7",
		// unknown mode
		"1", "x",
		// interval does not divide 256
		"1", "p", "3",
		// joint-color at interval 1 exceeds the bin limit
		"1", "c", "1", "",
		"1", "p", "16", "none",
		"q",
	}, "\n") + "\n"
	app, out := newTestApp(t, input, runner, false)

	require.NoError(t, app.RunInteractive(context.Background()))
	require.Len(t, runner.requests, 1)
	assert.Equal(t, 16, runner.requests[0].Match.Interval)
	assert.Equal(t, 4, strings.Count(out.String(), invalidArgument+"\n"))
}

func TestRunInteractiveRunErrors(t *testing.T) {
	runner := &fakeRunner{err: &histogram.ValidationError{Context: "histogram", Field: "grid", Value: 3, Reason: "does not divide"}}
	app, out := newTestApp(t, "1\np\n\n3\n", runner, false)
	require.NoError(t, app.RunInteractive(context.Background()))
	assert.Contains(t, out.String(), invalidArgument)

	runner = &fakeRunner{err: errors.New("disk on fire")}
	app, out = newTestApp(t, "1\np\n\n\n", runner, false)
	require.NoError(t, app.RunInteractive(context.Background()))
	assert.Contains(t, out.String(), "error: disk on fire")

	runner = &fakeRunner{err: context.Canceled}
	app, _ = newTestApp(t, "1\np\n\n\n", runner, false)
	assert.ErrorIs(t, app.RunInteractive(context.Background()), context.Canceled)
}

func TestRunInteractiveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{report: sampleReport()}
	app, _ := newTestApp(t, "1\np\n\n\n", runner, false)
	assert.ErrorIs(t, app.RunInteractive(ctx), context.Canceled)
	assert.Empty(t, runner.requests)
}

func TestRunInteractiveCanceledWhileReading(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	cfg := config.Default()
	runner := &fakeRunner{report: sampleReport()}
	app := newApplication(cfg, matcher.DefaultConfig(), runner, logger.Nop(), Options{In: in, Out: io.Discard})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunInteractive(ctx) }()

	// nothing is ever written, so the prompt is blocked on input
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunInteractive did not return after cancel")
	}
	assert.Empty(t, runner.requests)
}

func TestRunOnceVerbose(t *testing.T) {
	runner := &fakeRunner{report: sampleReport()}
	app, out := newTestApp(t, "", runner, true)

	sel := Selection{QuerySet: 3, Match: app.Defaults()}
	require.NoError(t, app.RunOnce(context.Background(), sel))
	assert.Equal(t, "miss: b -> a (1.5)\naccuracy: 1/2\n", out.String())
}

func TestShutdownOrder(t *testing.T) {
	counter := &shutdownCounter{}
	cfg := config.Default()
	app := newApplication(cfg, matcher.DefaultConfig(), &fakeRunner{}, logger.Nop(), Options{}, counter, counter)
	app.Shutdown()
	assert.Equal(t, 2, counter.calls)
}

func TestNewApplicationRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Match.Interval = 7
	_, err := NewApplication(cfg, nil, Options{})
	assert.ErrorIs(t, err, histogram.ErrInvalidConfig)
}

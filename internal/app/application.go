package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"histmatch/internal/config"
	"histmatch/internal/histogram"
	"histmatch/internal/logger"
	"histmatch/internal/matcher"
	"histmatch/internal/pipeline"
)

const (
	AppName    = "histmatch"
	AppVersion = "1.0.0"
)

type shutdownHandler interface {
	Shutdown()
}

type Options struct {
	In  io.Reader
	Out io.Writer

	// Verbose lists every miss before the accuracy line.
	Verbose bool
}

type Application struct {
	cfg           config.Config
	defaults      matcher.Config
	runner        pipeline.Runner
	logger        logger.Logger
	in            io.Reader
	out           io.Writer
	verbose       bool
	shutdownables []shutdownHandler
}

func NewApplication(cfg config.Config, log logger.Logger, opts Options) (*Application, error) {
	if log == nil {
		log = logger.Nop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	defaults, err := cfg.MatchConfig()
	if err != nil {
		return nil, err
	}

	coordinator, err := pipeline.NewCoordinator(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("Application", "starting application", logger.Fields{
		"version":   AppVersion,
		"log_level": cfg.LogLevel,
		"workers":   cfg.Workers,
	})

	return newApplication(cfg, defaults, coordinator, log, opts, coordinator), nil
}

func newApplication(cfg config.Config, defaults matcher.Config, runner pipeline.Runner, log logger.Logger, opts Options, shutdownables ...shutdownHandler) *Application {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	return &Application{
		cfg:           cfg,
		defaults:      defaults,
		runner:        runner,
		logger:        log,
		in:            in,
		out:           out,
		verbose:       opts.Verbose,
		shutdownables: shutdownables,
	}
}

// Defaults is the matching configuration built from the loaded config.
func (a *Application) Defaults() matcher.Config {
	return a.defaults
}

// SignalContext is canceled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// RunOnce performs a single run and prints its report.
func (a *Application) RunOnce(ctx context.Context, sel Selection) error {
	report, err := a.runner.Run(ctx, pipeline.RunRequest{
		QuerySet: sel.QuerySet,
		Match:    sel.Match,
	})
	if err != nil {
		return err
	}
	return pipeline.WriteReport(a.out, report, a.verbose)
}

// RunInteractive prompts for selections until the input ends. Invalid
// selections are reported as "invalid argument" and asked again. Canceling
// ctx returns ctx.Err() even while waiting for input.
func (a *Application) RunInteractive(ctx context.Context) error {
	prompter := NewPrompter(a.in, a.out, a.defaults, len(a.cfg.Dataset.Queries))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		sel, err := prompter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = a.RunOnce(ctx, sel)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, histogram.ErrInvalidConfig):
			fmt.Fprintln(a.out, invalidArgument)
		default:
			a.logger.Error("Application", err, logger.Fields{"query_set": sel.QuerySet})
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *Application) Shutdown() {
	a.logger.Info("Application", "shutdown sequence initiated", logger.Fields{
		"components": len(a.shutdownables),
	})

	for i := len(a.shutdownables) - 1; i >= 0; i-- {
		a.shutdownables[i].Shutdown()
	}

	a.logger.Info("Application", "shutdown sequence completed", nil)
}

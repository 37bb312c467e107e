package main

import (
	"fmt"

	"histmatch/internal/app"
	"histmatch/internal/config"
	"histmatch/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagValues struct {
	configPath string
	query      int
	verbose    bool
	legacy     bool
}

func newRootCommand() *cobra.Command {
	var fv flagValues
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:           app.AppName,
		Short:         "Histogram and KL-divergence image retrieval experiment",
		Version:       app.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := resolveConfig(cmd.Flags(), cfg, fv)
			if err != nil {
				return err
			}
			return run(cmd, resolved, fv)
		},
	}

	registerFlags(cmd.Flags(), &cfg, &fv)
	return cmd
}

func registerFlags(flags *pflag.FlagSet, cfg *config.Config, fv *flagValues) {
	flags.StringVarP(&fv.configPath, "config", "c", "", "YAML configuration file")
	flags.IntVarP(&fv.query, "query", "q", 0, "query set to match (1-based); skips the prompt")
	flags.BoolVarP(&fv.verbose, "verbose", "v", false, "list every miss before the accuracy line")
	flags.BoolVar(&fv.legacy, "legacy", false, "score per-channel runs as red + blue + blue")

	flags.StringVar(&cfg.Dataset.Root, "dataset-root", cfg.Dataset.Root, "dataset root directory")
	flags.StringVar(&cfg.Dataset.Support, "support", cfg.Dataset.Support, "support set directory under the root")
	flags.StringSliceVar(&cfg.Dataset.Queries, "queries", cfg.Dataset.Queries, "query set directories under the root")
	flags.StringVar(&cfg.Dataset.Decoder, "decoder", cfg.Dataset.Decoder, "image decoder: std or opencv")
	flags.UintVar(&cfg.Dataset.Resize, "resize", cfg.Dataset.Resize, "resize images to NxN before use (0 = off)")

	flags.StringVarP(&cfg.Match.Mode, "mode", "m", cfg.Match.Mode, "histogram: p (per-channel) or c (joint-color)")
	flags.IntVarP(&cfg.Match.Interval, "interval", "i", cfg.Match.Interval, "quantization interval, must divide 256")
	flags.IntVarP(&cfg.Match.Grid, "grid", "g", cfg.Match.Grid, "spatial grid count (0 = no grid)")
	flags.StringVar(&cfg.Match.Aggregation, "aggregation", cfg.Match.Aggregation, "per-channel score aggregation: channels or legacy")
	flags.BoolVar(&cfg.Match.StrictGrid, "strict-grid", cfg.Match.StrictGrid, "reject images the grid does not divide")
	flags.IntVar(&cfg.Match.MaxColorBins, "max-color-bins", cfg.Match.MaxColorBins, "cell limit of one joint-color descriptor")

	flags.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "parallel workers for loading and matching")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user set explicitly, in that order.
func resolveConfig(flags *pflag.FlagSet, fromFlags config.Config, fv flagValues) (config.Config, error) {
	cfg, err := config.Load(fv.configPath)
	if err != nil {
		return cfg, err
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dataset-root":
			cfg.Dataset.Root = fromFlags.Dataset.Root
		case "support":
			cfg.Dataset.Support = fromFlags.Dataset.Support
		case "queries":
			cfg.Dataset.Queries = fromFlags.Dataset.Queries
		case "decoder":
			cfg.Dataset.Decoder = fromFlags.Dataset.Decoder
		case "resize":
			cfg.Dataset.Resize = fromFlags.Dataset.Resize
		case "mode":
			cfg.Match.Mode = fromFlags.Match.Mode
		case "interval":
			cfg.Match.Interval = fromFlags.Match.Interval
		case "grid":
			cfg.Match.Grid = fromFlags.Match.Grid
		case "aggregation":
			cfg.Match.Aggregation = fromFlags.Match.Aggregation
		case "strict-grid":
			cfg.Match.StrictGrid = fromFlags.Match.StrictGrid
		case "max-color-bins":
			cfg.Match.MaxColorBins = fromFlags.Match.MaxColorBins
		case "workers":
			cfg.Workers = fromFlags.Workers
		case "log-level":
			cfg.LogLevel = fromFlags.LogLevel
		}
	})

	if fv.legacy {
		cfg.Match.Aggregation = "legacy"
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, cfg config.Config, fv flagValues) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), level)

	application, err := app.NewApplication(cfg, log, app.Options{
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Verbose: fv.verbose,
	})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, stop := app.SignalContext(cmd.Context())
	defer stop()

	if fv.query == 0 {
		return application.RunInteractive(ctx)
	}

	querySet, err := app.ParseQuerySet(fmt.Sprint(fv.query), len(cfg.Dataset.Queries))
	if err != nil {
		return err
	}
	return application.RunOnce(ctx, app.Selection{
		QuerySet: querySet,
		Match:    application.Defaults(),
	})
}

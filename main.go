package main

import (
	"fmt"
	"os"
	"time"

	"studenteval/config"
	"studenteval/db"
	"studenteval/form"
	"studenteval/logging"
	"studenteval/ml"
	"studenteval/monitoring"
	"studenteval/visualize"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds everything the subcommands share once the config is loaded.
type app struct {
	configPath string
	config     *config.Config
	logger     *zap.Logger
	level      zap.AtomicLevel
	store      *db.Store
	registry   *prometheus.Registry
	metrics    *monitoring.Metrics
}

func main() {
	a := &app{}
	root := newRootCommand(a)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "studenteval",
		Short:         "Record student evaluations and predict their result",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDesktop()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(
		newServeCommand(a),
		newListCommand(a),
		newChartCommand(a),
		newTrainCommand(a),
		newPredictCommand(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.config = cfg

	a.logger, a.level, err = logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.store, err = db.NewStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.logger.Debug("database initialized", zap.String("path", cfg.Database.Path))

	a.registry = prometheus.NewRegistry()
	a.metrics = monitoring.NewMetrics(a.registry)
	return nil
}

func (a *app) trainer() (ml.Trainer, error) {
	var trainer ml.Trainer = ml.NewTreeTrainer(a.config.ML.MaxTreeDepth, a.logger.Named("ml"))
	if !a.config.ML.CacheModels {
		return trainer, nil
	}
	return ml.NewCachedTrainer(trainer, a.config.ML.CacheSize)
}

func (a *app) controller(opts ...form.Option) (*form.Controller, error) {
	trainer, err := a.trainer()
	if err != nil {
		return nil, err
	}
	base := []form.Option{
		form.WithLogger(a.logger.Named("form")),
		form.WithMetrics(a.metrics),
		form.WithChartOptions(visualize.Options{
			Width:  a.config.Chart.Width,
			Height: a.config.Chart.Height,
		}),
	}
	return form.NewController(a.store, trainer, form.NewState(), append(base, opts...)...), nil
}

// watchConfig re-applies the log level whenever the config file changes.
func (a *app) watchConfig() func() {
	if _, err := os.Stat(a.configPath); err != nil {
		return func() {}
	}
	w, err := config.Watch(a.configPath, a.logger, func(cfg *config.Config) {
		if err := logging.SetLevel(a.level, cfg.Log.Level); err != nil {
			a.logger.Warn("invalid log level in reloaded config", zap.String("level", cfg.Log.Level))
		}
	})
	if err != nil {
		a.logger.Warn("config watch disabled", zap.Error(err))
		return func() {}
	}
	return func() { w.Close() }
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

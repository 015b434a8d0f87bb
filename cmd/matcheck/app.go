package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"matcheck/internal/catalog"
	"matcheck/internal/config"
	"matcheck/internal/core"
	"matcheck/internal/logging"
)

// app carries the per-invocation state shared by the subcommands.
type app struct {
	configPath  string
	tracePath   string
	showMetrics bool

	stdout io.Writer
	stderr io.Writer
	view   *view

	cfg      config.Config
	logger   zerolog.Logger
	catalog  *catalog.Catalog
	store    core.ChecklistStore
	svc      *core.Service
	registry *prometheus.Registry
	trace    *os.File
}

func newRootCommand(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdout: stdout, stderr: stderr, view: newView(stdout), logger: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "matcheck",
		Short: "Track the materials needed for operator upgrade goals",
		Long: `matcheck keeps a persistent checklist of operator upgrade goals.

Pick an operator, add goals from its recipe list, and the checklist keeps one
entry per operator and goal. Re-adding a goal refreshes its materials in place.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&a.tracePath, "trace", "", "append JSON trace spans to this file")
	flags.BoolVar(&a.showMetrics, "metrics", false, "print operation metrics after the command")

	root.AddCommand(
		newOperatorsCommand(a),
		newGoalsCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newDeleteCommand(a),
	)
	return root, a
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger, err := logging.New(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	a.catalog = cat
	return nil
}

// service opens the configured store and restores the checklist on first use.
func (a *app) service(ctx context.Context) (*core.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	store, err := core.OpenStore(ctx, a.cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Storage.Driver, err)
	}
	a.store = store

	opts := []core.Option{core.WithSlot(a.cfg.Storage.Key), core.WithLogger(a.logger)}
	var recorders []core.MetricsRecorder
	if name := a.cfg.Metrics.ExpvarName; name != "" && expvar.Get(name) == nil {
		recorders = append(recorders, core.NewExpvarMetricsRecorder(name))
	}
	if a.cfg.Metrics.Prometheus || a.showMetrics {
		a.registry = prometheus.NewRegistry()
		recorders = append(recorders, core.NewPrometheusMetricsRecorder(a.registry))
	}
	if len(recorders) > 0 {
		opts = append(opts, core.WithMetricsRecorder(core.NewMultiMetricsRecorder(recorders...)))
	}
	if a.tracePath != "" {
		f, err := os.OpenFile(a.tracePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		a.trace = f
		opts = append(opts, core.WithTracer(core.NewJSONTracer(f)))
	}

	svc, err := core.NewService(ctx, store, opts...)
	if err != nil {
		if !core.IsStorageError(err) {
			return nil, err
		}
		a.view.notice("checklist could not be loaded, starting empty: %v", err)
	}
	a.svc = svc
	return svc, nil
}

func (a *app) close() error {
	if a.showMetrics && a.registry != nil {
		if err := writeMetrics(a.stdout, a.registry); err != nil {
			a.logger.Warn().Err(err).Msg("gather metrics")
		}
	}
	var firstErr error
	if a.store != nil {
		firstErr = core.CloseStore(a.store)
	}
	if a.trace != nil {
		if err := a.trace.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

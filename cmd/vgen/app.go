package main

import (
	"context"
	"fmt"

	"ruleforge/vgen/pkg/cache"
	"ruleforge/vgen/pkg/catalog"
	"ruleforge/vgen/pkg/cli"
	"ruleforge/vgen/pkg/config"
	"ruleforge/vgen/pkg/engine"
	"ruleforge/vgen/pkg/revision"
	"ruleforge/vgen/pkg/rules"
	"ruleforge/vgen/pkg/telemetry/logging"
	"ruleforge/vgen/pkg/telemetry/metrics"
	"ruleforge/vgen/pkg/telemetry/tracing"

	"github.com/spf13/cobra"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	store   cache.Store
	engine  *engine.Engine
}

type appOptions struct {
	noCache bool
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

func newCatalog() (*catalog.Catalog, error) {
	c := catalog.New()
	if err := rules.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if opts.noCache {
		disabled := false
		cfg.Cache.Enabled = &disabled
	}

	lc := logging.FromConfig(cfg.Telemetry.Logging)
	lc.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	store, err := cache.Open(&cfg.Cache)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
		store:   store,
	}

	rev := revision.SHA(".")
	if rev != "" {
		logger.Debug("workspace revision", "sha", rev)
	}

	a.engine, err = engine.New(engine.Options{
		Config:   cfg,
		Logger:   logger,
		Metrics:  a.metrics,
		Tracer:   tracer,
		Store:    store,
		Catalog:  cat,
		Revision: rev,
		Version:  Version,
	})
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

// Close releases the cache and flushes spans.
func (a *app) Close(ctx context.Context) {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close cache", "error", err)
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

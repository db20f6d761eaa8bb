package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/gnss-sitemap/internal/adapter/mapbox"
	"github.com/couchcryptid/gnss-sitemap/internal/adapter/sheet"
	"github.com/couchcryptid/gnss-sitemap/internal/config"
	"github.com/couchcryptid/gnss-sitemap/internal/domain"
	"github.com/couchcryptid/gnss-sitemap/internal/observability"
	"github.com/couchcryptid/gnss-sitemap/internal/pipeline"
)

// newMetrics is swapped in tests, where the default registry would reject
// repeated registration.
var newMetrics = observability.NewMetrics

// app carries the per-invocation configuration and observability.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// loadApp reads the environment, applies flag overrides and builds the logger.
func loadApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	set := cmd.Flags().Changed
	if set("url") {
		cfg.SheetURL = flags.sheetURL
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if set("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if set("metrics-file") {
		cfg.MetricsTextfile = flags.metricsFile
	}
	if set("colors") {
		cfg.CategoryColors = flags.colors
	}
	return &app{cfg: cfg, logger: observability.NewLogger(cfg)}, nil
}

// init validates the final settings and creates the metrics.
func (a *app) init() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.metrics = newMetrics()
	return nil
}

// transformer builds the mapper, legend extractor and optional geocoder.
func (a *app) transformer() (*pipeline.SiteTransformer, error) {
	palette, err := domain.DefaultPalette().WithOverrides(a.cfg.CategoryColors)
	if err != nil {
		return nil, fmt.Errorf("parse CATEGORY_COLORS: %w", err)
	}

	mapperCfg := domain.DefaultMapperConfig()
	mapperCfg.Palette = palette
	mapperCfg.HeightStep = a.cfg.HeightStep
	mapper, err := domain.NewMapper(mapperCfg)
	if err != nil {
		return nil, fmt.Errorf("create mapper: %w", err)
	}

	var geocoder domain.Geocoder
	if a.cfg.MapboxEnabled {
		client := mapbox.NewClient(a.cfg.MapboxToken, a.cfg.MapboxTimeout, a.cfg.MapboxRateLimit, a.metrics, a.logger)
		cached, err := mapbox.NewCachedGeocoder(client, a.cfg.MapboxCacheSize, a.metrics)
		if err != nil {
			return nil, err
		}
		geocoder = cached
		a.metrics.GeocodeEnabled.Set(1)
		a.logger.Info("mapbox label enrichment enabled",
			"cache_size", a.cfg.MapboxCacheSize,
			"timeout", a.cfg.MapboxTimeout,
			"rate_limit", a.cfg.MapboxRateLimit,
		)
	} else {
		a.metrics.GeocodeEnabled.Set(0)
		a.logger.Debug("mapbox label enrichment disabled")
	}

	return pipeline.NewTransformer(mapper, domain.NewLegendExtractor(palette), geocoder, a.logger), nil
}

// pipeline assembles a run over the configured sheet.
func (a *app) pipeline(sinks pipeline.Sinks) (*pipeline.Pipeline, error) {
	t, err := a.transformer()
	if err != nil {
		return nil, err
	}
	src := sheet.NewSource(a.cfg.SheetURL, a.cfg.FetchTimeout, a.logger)
	a.logger.Debug("sheet source selected", "kind", src.Kind(), "url", a.cfg.SheetURL)
	return pipeline.New(src, sheet.ParseCSV, t, sinks, a.logger, a.metrics), nil
}

// onClose registers a sink to close when the command finishes.
func (a *app) onClose(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// finish closes sinks within the shutdown timeout and writes the metrics
// textfile. It returns runErr joined with any close failure.
func (a *app) finish(runErr error) error {
	errs := []error{runErr}
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := closeWithTimeout(c.close, a.cfg.ShutdownTimeout); err != nil {
			a.logger.Error("close sink failed", "sink", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil

	if a.cfg.MetricsTextfile != "" && a.metrics != nil {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.logger.Error("metrics textfile failed", "path", a.cfg.MetricsTextfile, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeWithTimeout(fn func() error, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("timed out after %s", timeout)
	}
}

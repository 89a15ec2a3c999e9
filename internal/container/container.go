// Package container provides dependency injection for the aptfee application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"aptfee/internal/config"
	"aptfee/internal/dashboard"
	"aptfee/internal/feestatus"
	"aptfee/internal/importer"
	"aptfee/internal/labels"
	"aptfee/internal/logging"
	"aptfee/internal/period"
	"aptfee/internal/report"
	"aptfee/internal/revenue"
	"aptfee/internal/service"
	"aptfee/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. Every component shares the same
// normalizer, so all of them agree on the engine's time zone.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	normalizer *period.Normalizer
	store      store.Store
	labels     labels.Table
	service    *service.Service
	importer   *importer.Importer
	generator  *report.Generator
}

// NewContainer creates and wires all application dependencies with a logrus
// logger built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the application around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Engine.Timezone, err)
	}
	normalizer := period.NewNormalizer(loc)

	tbl, err := labels.Load(cfg.Labels.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	var s store.Store
	switch cfg.Database.Backend {
	case config.BackendMemory:
		s = store.NewMemoryStore(normalizer)
	case config.BackendSQLite:
		s, err = store.NewSQLiteStore(cfg.Database.Path, normalizer, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown database backend: %s", cfg.Database.Backend)
	}

	resolver := feestatus.NewResolver(normalizer, logger)
	aggregator := revenue.NewAggregator(revenue.Config{
		TrendMonths: cfg.Engine.TrendMonths,
		Labels:      tbl,
	}, normalizer, logger)
	composer := dashboard.NewComposer(s, normalizer, aggregator, logger)

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldBackend, Value: cfg.Database.Backend},
		logging.Field{Key: "timezone", Value: loc.String()},
		logging.Field{Key: "labels", Value: tbl.Len()})

	return &Container{
		logger:     logger,
		config:     cfg,
		normalizer: normalizer,
		store:      s,
		labels:     tbl,
		service:    service.New(s, normalizer, resolver, composer, logger),
		importer:   importer.New(s, normalizer, cfg.Delimiter(), logger),
		generator:  report.NewGenerator(tbl, cfg.Delimiter(), logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetNormalizer returns the shared period normalizer.
func (c *Container) GetNormalizer() *period.Normalizer {
	return c.normalizer
}

// GetStore returns the payment store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetLabels returns the display-name table.
func (c *Container) GetLabels() labels.Table {
	return c.labels
}

// GetService returns the reconciliation service.
func (c *Container) GetService() *service.Service {
	return c.service
}

// GetImporter returns the CSV importer.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// GetGenerator returns the report generator.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// Close releases the store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}

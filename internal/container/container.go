// Package container provides dependency injection for the camt-qif application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/camt-qif/internal/camtparser"
	"fjacquet/camt-qif/internal/classifier"
	"fjacquet/camt-qif/internal/config"
	"fjacquet/camt-qif/internal/engine"
	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
	"fjacquet/camt-qif/internal/qif"
	"fjacquet/camt-qif/internal/registry"
	"fjacquet/camt-qif/internal/source"
	"fjacquet/camt-qif/internal/transfer"
)

// Container holds the run-independent dependencies and builds the per-run ones.
// It is immutable after creation.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	parser     *camtparser.Parser
	classifier *classifier.Classifier
}

// NewContainer creates and wires all application dependencies with a logger
// configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger is NewContainer with an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	cls := classifier.Default()
	cls.SetLogger(logger)

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldWorkers, Value: cfg.Processing.Workers},
		logging.Field{Key: logging.FieldGrammar, Value: cls.Grammars()})

	return &Container{
		logger:     logger,
		config:     cfg,
		parser:     camtparser.NewParser(logger),
		classifier: cls,
	}, nil
}

// GetLogger returns the application logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the application configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetParser returns the CAMT.053 parser.
func (c *Container) GetParser() *camtparser.Parser {
	return c.parser
}

// GetClassifier returns the narrative classifier.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// LoadRegistry reads the account registry at path.
func (c *Container) LoadRegistry(path string) (*registry.Registry, error) {
	return registry.Load(path, c.logger)
}

// NewEngine wires a fresh engine and aggregator over accounts.
func (c *Container) NewEngine(accounts models.AccountLookup) *engine.Engine {
	return engine.New(
		c.classifier,
		transfer.NewResolver(accounts, c.logger),
		qif.NewAggregator(accounts, c.logger),
		c.logger,
	)
}

// NewCollector creates a source collector.
func (c *Container) NewCollector() *source.Collector {
	return source.NewCollector(c.logger)
}

// Package engine chains classification, transfer resolution and aggregation
// for the entries of each statement.
package engine

import (
	"fmt"
	"strings"

	"fjacquet/camt-qif/internal/dateutils"
	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
	"fjacquet/camt-qif/internal/parsererror"
	"fjacquet/camt-qif/internal/qif"
)

// Classifier classifies a narrative.
type Classifier interface {
	Classify(narrative string) (models.Classification, error)
}

// Resolver expands a record into itself and, for transfers, its complement.
type Resolver interface {
	Resolve(rec models.Record) ([]models.Record, error)
}

// Aggregator collects records and renders the output document.
type Aggregator interface {
	Add(rec models.Record) (bool, error)
	Finalize() qif.Document
}

// Engine converts statement entries into aggregated records.
// It holds no state of its own; concurrency safety is that of the Aggregator.
type Engine struct {
	classifier Classifier
	resolver   Resolver
	aggregator Aggregator
	logger     logging.Logger
}

// New creates an Engine from its collaborators.
func New(classifier Classifier, resolver Resolver, aggregator Aggregator, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{
		classifier: classifier,
		resolver:   resolver,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Process consumes the entries booked on account. It stops at the first entry
// that cannot be classified or aggregated.
func (e *Engine) Process(account string, entries []models.Entry) error {
	if strings.TrimSpace(account) == "" {
		return &parsererror.UnresolvedAccountError{Account: account}
	}

	accepted, skipped := 0, 0
	for _, entry := range entries {
		classification, err := e.classifier.Classify(entry.Narrative)
		if err != nil {
			return fmt.Errorf("account %s, entry of %s: %w",
				account, dateutils.ToQIFDate(entry.Date), err)
		}

		records, err := e.resolver.Resolve(models.NewRecord(account, entry, classification))
		if err != nil {
			return fmt.Errorf("account %s, entry of %s: %w",
				account, dateutils.ToQIFDate(entry.Date), err)
		}

		for _, rec := range records {
			ok, err := e.aggregator.Add(rec)
			if err != nil {
				return fmt.Errorf("account %s: %w", rec.SourceAccount, err)
			}
			if ok {
				accepted++
			} else {
				skipped++
			}
		}
	}

	e.logger.Debug("Statement processed",
		logging.Field{Key: logging.FieldAccount, Value: account},
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
		logging.Field{Key: logging.FieldAccepted, Value: accepted},
		logging.Field{Key: logging.FieldSkipped, Value: skipped})
	return nil
}

// ProcessStatement is Process for a parsed statement, naming its source on failure.
func (e *Engine) ProcessStatement(stmt models.Statement) error {
	if strings.TrimSpace(stmt.Account) == "" {
		return &parsererror.UnresolvedAccountError{Account: stmt.Account, Source: stmt.Source}
	}
	if err := e.Process(stmt.Account, stmt.Entries); err != nil {
		if stmt.Source == "" {
			return err
		}
		return fmt.Errorf("%s: %w", stmt.Source, err)
	}
	return nil
}

// Finalize renders the aggregated document.
func (e *Engine) Finalize() qif.Document {
	return e.aggregator.Finalize()
}

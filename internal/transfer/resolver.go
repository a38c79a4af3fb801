// Package transfer expands records between registered accounts into both sides
// of the transfer.
package transfer

import (
	"fmt"

	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
)

// Resolver emits the complement of every transfer between registered accounts.
type Resolver struct {
	accounts models.AccountLookup
	logger   logging.Logger
}

// NewResolver creates a Resolver over the given account registry.
func NewResolver(accounts models.AccountLookup, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Resolver{
		accounts: accounts,
		logger:   logger,
	}
}

// Resolve returns rec alone, or rec followed by its complement when rec is a transfer.
func (r *Resolver) Resolve(rec models.Record) ([]models.Record, error) {
	if !rec.IsTransfer(r.accounts) {
		return []models.Record{rec}, nil
	}

	complement, err := rec.Complement(r.accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to derive complement: %w", err)
	}

	r.logger.Debug("Transfer between registered accounts",
		logging.Field{Key: logging.FieldAccount, Value: rec.SourceAccount},
		logging.Field{Key: logging.FieldCounter, Value: rec.CounterAccount},
		logging.Field{Key: logging.FieldAmount, Value: rec.Amount.String()})

	return []models.Record{rec, complement}, nil
}

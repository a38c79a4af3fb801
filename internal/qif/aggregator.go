// Package qif accumulates records into per-account QIF groups and renders the
// final document.
package qif

import (
	"strings"
	"sync"

	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
	"fjacquet/camt-qif/internal/parsererror"
)

// Document is the rendered output of an aggregation run.
type Document struct {
	Content    string
	Accepted   int
	Skipped    int
	Accounts   int
	Duplicates []models.Record
}

// Aggregator deduplicates records by fingerprint and groups their QIF blocks by
// source account. All methods are safe for concurrent use.
type Aggregator struct {
	accounts models.AccountLookup
	logger   logging.Logger

	mu         sync.Mutex
	groups     map[string][]string
	order      []string
	seen       map[models.Fingerprint]struct{}
	accepted   int
	skipped    int
	duplicates []models.Record
}

// NewAggregator creates an empty Aggregator rendering names through accounts.
func NewAggregator(accounts models.AccountLookup, logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Aggregator{
		accounts: accounts,
		logger:   logger,
		groups:   make(map[string][]string),
		seen:     make(map[models.Fingerprint]struct{}),
	}
}

// Add inserts rec unless a record with the same fingerprint was already added.
// It reports whether the record was accepted. A record without source account
// fails with *parsererror.UnresolvedAccountError and leaves the state unchanged.
func (a *Aggregator) Add(rec models.Record) (bool, error) {
	fp := rec.Fingerprint()

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, dup := a.seen[fp]; dup {
		a.skipped++
		a.duplicates = append(a.duplicates, rec)
		a.logger.Debug("Found duplicated transaction",
			logging.Field{Key: logging.FieldAccount, Value: rec.SourceAccount},
			logging.Field{Key: logging.FieldFingerprint, Value: fp.String()},
			logging.Field{Key: "transaction", Value: rec.String()})
		return false, nil
	}

	blocks, known := a.groups[rec.SourceAccount]
	if !known {
		name, err := a.DisplayName(rec.SourceAccount)
		if err != nil {
			return false, err
		}
		blocks = []string{models.AccountHeader(name)}
		a.order = append(a.order, rec.SourceAccount)
	}

	a.groups[rec.SourceAccount] = append(blocks, rec.OutputBlock(a.accounts))
	a.seen[fp] = struct{}{}
	a.accepted++
	return true, nil
}

// DisplayName returns the registered name of account, falling back to the
// identifier itself when it is not registered.
func (a *Aggregator) DisplayName(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", &parsererror.UnresolvedAccountError{Account: account}
	}
	if a.accounts != nil {
		if name, ok := a.accounts.Resolve(account); ok && name != "" {
			return name, nil
		}
	}
	return account, nil
}

// Blocks returns the transaction blocks accepted for account, without its header.
func (a *Aggregator) Blocks(account string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	blocks := a.groups[account]
	if len(blocks) <= 1 {
		return nil
	}
	out := make([]string, len(blocks)-1)
	copy(out, blocks[1:])
	return out
}

// Finalize renders every account group in first-encounter order, each block on
// its own line. It does not reset the aggregator.
func (a *Aggregator) Finalize() Document {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	for _, account := range a.order {
		for _, block := range a.groups[account] {
			b.WriteString(block)
			b.WriteByte('\n')
		}
	}

	duplicates := make([]models.Record, len(a.duplicates))
	copy(duplicates, a.duplicates)

	return Document{
		Content:    b.String(),
		Accepted:   a.accepted,
		Skipped:    a.skipped,
		Accounts:   len(a.order),
		Duplicates: duplicates,
	}
}

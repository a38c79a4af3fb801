package models

import (
	"fmt"
	"time"

	"fjacquet/camt-qif/internal/dateutils"
	"fjacquet/camt-qif/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Record is the canonical representation of one ledger entry seen from SourceAccount.
// Records are values: operations return new records and never modify the receiver.
type Record struct {
	SourceAccount  string
	CounterAccount string // empty when the counter-account is unknown
	Kind           Kind
	Date           time.Time
	Amount         decimal.Decimal
	Payee          string
	Memo           string
	Narrative      string
}

// NewRecord builds a record for an entry booked on account from its classification.
func NewRecord(account string, entry Entry, c Classification) Record {
	return Record{
		SourceAccount:  account,
		CounterAccount: c.CounterAccount,
		Kind:           c.Kind,
		Date:           dateutils.TruncateToDay(entry.Date),
		Amount:         entry.Amount,
		Payee:          c.Payee,
		Memo:           c.Memo,
		Narrative:      entry.Narrative,
	}
}

// Equal reports whether r and other describe the same transaction.
// The narrative is ignored and amounts are compared by value.
func (r Record) Equal(other Record) bool {
	return r.SourceAccount == other.SourceAccount &&
		r.CounterAccount == other.CounterAccount &&
		r.Kind == other.Kind &&
		r.Date.Equal(other.Date) &&
		r.Amount.Equal(other.Amount) &&
		r.Payee == other.Payee &&
		r.Memo == other.Memo
}

// IsTransfer reports whether the counter-account is one of the registered accounts.
func (r Record) IsTransfer(accounts AccountLookup) bool {
	if r.CounterAccount == "" || accounts == nil {
		return false
	}
	_, ok := accounts.Resolve(r.CounterAccount)
	return ok
}

// Complement returns the mirrored record booked on the counter-account.
func (r Record) Complement(accounts AccountLookup) (Record, error) {
	if !r.IsTransfer(accounts) {
		return Record{}, &parsererror.InvalidComplementError{
			Account: r.SourceAccount,
			Counter: r.CounterAccount,
		}
	}

	return Record{
		SourceAccount:  r.CounterAccount,
		CounterAccount: r.SourceAccount,
		Kind:           r.Kind,
		Date:           r.Date,
		Amount:         r.Amount.Neg(),
		Payee:          r.Payee,
		Memo:           r.Memo,
		Narrative:      r.Narrative,
	}, nil
}

// String formats the record for diagnostics.
func (r Record) String() string {
	return fmt.Sprintf("%s: %s -> %s %s (%s: %s)",
		dateutils.ToEuropeanDate(r.Date),
		r.SourceAccount,
		r.CounterAccount,
		r.Amount.String(),
		r.Payee,
		r.Memo)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one ledger entry extracted from a statement document.
// Amount is already signed: credits are positive, debits negative.
type Entry struct {
	Date      time.Time
	Amount    decimal.Decimal
	Narrative string
}

// Statement groups the entries booked on one account.
type Statement struct {
	Account string
	Source  string
	Entries []Entry
}

// Classification is the result of matching a narrative against a grammar.
// Empty strings mean the field is absent.
type Classification struct {
	Kind           Kind
	Payee          string
	Memo           string
	CounterAccount string
}

// AccountLookup resolves an account identifier to its display name.
type AccountLookup interface {
	Resolve(id string) (string, bool)
}

// AccountMap is an in-memory AccountLookup keyed by account identifier.
type AccountMap map[string]string

// Resolve implements AccountLookup. A blank name resolves to the identifier itself.
func (m AccountMap) Resolve(id string) (string, bool) {
	name, ok := m[id]
	if !ok {
		return "", false
	}
	if name == "" {
		return id, true
	}
	return name, true
}

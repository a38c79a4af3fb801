package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"fjacquet/camt-qif/internal/dateutils"
)

// Fingerprint identifies a transaction for deduplication across statements.
// It is stable across runs and comparable, so it can key a map directly.
type Fingerprint [sha256.Size]byte

// String returns the lowercase hex form.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Fingerprint hashes source account, counter-account, day, amount and memo.
// Kind, payee and narrative do not contribute, so both sides of a transfer
// exported by different statements collapse onto the same value.
func (r Record) Fingerprint() Fingerprint {
	var b strings.Builder
	b.WriteString(r.SourceAccount)
	b.WriteByte('|')
	b.WriteString(r.CounterAccount)
	b.WriteByte('|')
	b.WriteString(dateutils.ToCompactDate(r.Date))
	b.WriteByte('|')
	b.WriteString(r.Amount.String())
	b.WriteByte('|')
	b.WriteString(r.Memo)
	return sha256.Sum256([]byte(b.String()))
}

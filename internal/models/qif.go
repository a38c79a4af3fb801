package models

import (
	"fmt"

	"fjacquet/camt-qif/internal/dateutils"
)

const accountHeaderTemplate = "!Account\nN%s\nT%s\n^"

const transactionTemplate = "!Type:%s\nD%s\nT%s\nC\nP%s\nM%s\nL%s\n^"

// AccountHeader renders the QIF block that opens the group of an account.
func AccountHeader(name string) string {
	return fmt.Sprintf(accountHeaderTemplate, name, AccountTypeBank)
}

// OutputBlock renders the record as a QIF transaction block.
// Transfers carry the counter-account display name as category label and
// fall back to a fixed memo when theirs is absent.
func (r Record) OutputBlock(accounts AccountLookup) string {
	memo := r.Memo
	label := ""

	if r.IsTransfer(accounts) {
		if memo == "" {
			memo = TransferMemo
		}
		name, _ := accounts.Resolve(r.CounterAccount)
		label = "[" + name + "]"
	}

	return fmt.Sprintf(transactionTemplate,
		r.Kind,
		dateutils.ToQIFDate(r.Date),
		r.Amount.StringFixed(2),
		r.Payee,
		memo,
		label)
}

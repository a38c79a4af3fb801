package models

// Credit/debit indicators used by CAMT.053 entries
const (
	TransactionTypeDebit  = "DBIT"
	TransactionTypeCredit = "CRDT"
)

// Kind is the QIF transaction type of a record.
type Kind string

// Kinds a narrative can be classified into
const (
	KindBank Kind = "Bank"
	KindCash Kind = "Cash"
	KindCard Kind = "CCard"
)

// String returns the QIF type name.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBank, KindCash, KindCard:
		return true
	}
	return false
}

// QIF rendering constants
const (
	// AccountTypeBank is the account type written in every account header.
	AccountTypeBank = "Bank"
	// TransferMemo replaces an absent memo on transfer records.
	TransferMemo = "Transfer"
	// InstitutionName is the payee used for bank-originated notices.
	InstitutionName = "ABN AMRO Bank N.V."
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)

package camtparser

import "encoding/xml"

// Document is the root of a CAMT.053 bank-to-customer statement message.
// Tags carry no namespace so every camt.053.001.xx version decodes.
type Document struct {
	XMLName       xml.Name `xml:"Document"`
	BkToCstmrStmt struct {
		Stmt []Statement `xml:"Stmt"`
	} `xml:"BkToCstmrStmt"`
}

// Statement represents a bank statement in the CAMT.053 format
type Statement struct {
	ID   string  `xml:"Id"`
	Acct Account `xml:"Acct"`
	Ntry []Entry `xml:"Ntry"`
}

// Account represents a bank account in the CAMT.053 format
type Account struct {
	ID struct {
		IBAN string `xml:"IBAN"`
		Othr struct {
			ID string `xml:"Id"`
		} `xml:"Othr"`
	} `xml:"Id"`
	Ccy string `xml:"Ccy"`
}

// Identifier returns the IBAN, or the proprietary identifier when no IBAN is given.
func (a Account) Identifier() string {
	if a.ID.IBAN != "" {
		return a.ID.IBAN
	}
	return a.ID.Othr.ID
}

// Amount represents a monetary amount with currency
type Amount struct {
	Value string `xml:",chardata"`
	Ccy   string `xml:"Ccy,attr"`
}

// EntryDate represents a date or date-time in ISO20022 format
type EntryDate struct {
	Dt   string `xml:"Dt"`
	DtTm string `xml:"DtTm"`
}

// Value returns whichever of date or date-time is present.
func (d EntryDate) Value() string {
	if d.Dt != "" {
		return d.Dt
	}
	return d.DtTm
}

// Entry represents a transaction entry in the CAMT.053 format
type Entry struct {
	NtryRef      string    `xml:"NtryRef"`
	Amt          Amount    `xml:"Amt"`
	CdtDbtInd    string    `xml:"CdtDbtInd"` // CRDT or DBIT
	Sts          string    `xml:"Sts"`
	BookgDt      EntryDate `xml:"BookgDt"`
	ValDt        EntryDate `xml:"ValDt"`
	AcctSvcrRef  string    `xml:"AcctSvcrRef"`
	AddtlNtryInf string    `xml:"AddtlNtryInf"`
}

package qif

import (
	"fmt"

	"fjacquet/camt-qif/internal/dateutils"
	"fjacquet/camt-qif/internal/fileutils"
	"fjacquet/camt-qif/internal/models"

	"github.com/gocarina/gocsv"
)

// DuplicateRow is one line of the duplicates report.
type DuplicateRow struct {
	Date           string `csv:"Date"`
	SourceAccount  string `csv:"SourceAccount"`
	CounterAccount string `csv:"CounterAccount"`
	Kind           string `csv:"Kind"`
	Amount         string `csv:"Amount"`
	Payee          string `csv:"Payee"`
	Memo           string `csv:"Memo"`
	Fingerprint    string `csv:"Fingerprint"`
	Narrative      string `csv:"Narrative"`
}

// NewDuplicateRow converts a skipped record into a report row.
func NewDuplicateRow(rec models.Record) DuplicateRow {
	return DuplicateRow{
		Date:           dateutils.ToQIFDate(rec.Date),
		SourceAccount:  rec.SourceAccount,
		CounterAccount: rec.CounterAccount,
		Kind:           rec.Kind.String(),
		Amount:         rec.Amount.StringFixed(2),
		Payee:          rec.Payee,
		Memo:           rec.Memo,
		Fingerprint:    rec.Fingerprint().String(),
		Narrative:      rec.Narrative,
	}
}

// WriteDuplicatesCSV writes the skipped records to path as CSV.
// The file is replaced atomically; an empty list still produces a header line.
func WriteDuplicatesCSV(path string, records []models.Record) error {
	rows := make([]DuplicateRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewDuplicateRow(rec))
	}

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	if err := fileutils.WriteFileAtomic(path, data, models.PermissionOutputFile); err != nil {
		return fmt.Errorf("failed to write duplicates report: %w", err)
	}
	return nil
}

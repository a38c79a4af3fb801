// Package camtparser reads ISO 20022 CAMT.053 statement documents into
// statements of signed entries.
package camtparser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/camt-qif/internal/dateutils"
	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
	"fjacquet/camt-qif/internal/parsererror"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"
)

const parserName = "CAMT"

// Parser decodes CAMT.053 documents.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a new Parser.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{logger: logger}
}

// SetLogger sets the parser logger.
func (p *Parser) SetLogger(logger logging.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// newDecoder returns an XML decoder honouring the declared document encoding,
// such as the windows-1252 used by ABN AMRO exports.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// ParseFile parses the CAMT.053 document at path.
func (p *Parser) ParseFile(path string) ([]models.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close XML file",
				logging.Field{Key: logging.FieldFile, Value: path})
		}
	}()

	return p.Parse(f, path)
}

// Parse decodes a CAMT.053 document read from r. Every Stmt element yields one
// statement; source names the document in errors and in the statements.
func (p *Parser) Parse(r io.Reader, source string) ([]models.Statement, error) {
	var document Document
	if err := newDecoder(r).Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "CAMT.053 XML",
			Msg:            err.Error(),
		}
	}

	if len(document.BkToCstmrStmt.Stmt) == 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "CAMT.053 XML",
			Msg:            "no statements found",
		}
	}

	statements := make([]models.Statement, 0, len(document.BkToCstmrStmt.Stmt))
	for _, stmt := range document.BkToCstmrStmt.Stmt {
		converted, err := p.convertStatement(stmt, source)
		if err != nil {
			return nil, err
		}
		statements = append(statements, converted)
	}

	p.logger.Info("Parsed CAMT.053 document",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(statements)})
	return statements, nil
}

func (p *Parser) convertStatement(stmt Statement, source string) (models.Statement, error) {
	account := strings.TrimSpace(stmt.Acct.Identifier())
	entries := make([]models.Entry, 0, len(stmt.Ntry))

	for i, ntry := range stmt.Ntry {
		entry, err := convertEntry(ntry)
		if err != nil {
			return models.Statement{}, fmt.Errorf("%s: statement %s, entry %d: %w", source, account, i+1, err)
		}
		entries = append(entries, entry)
	}

	p.logger.Debug("Statement extracted",
		logging.Field{Key: logging.FieldAccount, Value: account},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})

	return models.Statement{
		Account: account,
		Source:  source,
		Entries: entries,
	}, nil
}

// convertEntry applies the credit/debit sign to the amount and picks the value
// date, falling back to the booking date.
func convertEntry(ntry Entry) (models.Entry, error) {
	raw := strings.TrimSpace(ntry.Amt.Value)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return models.Entry{}, &parsererror.ParseError{Parser: parserName, Field: "Amt", Value: raw, Err: err}
	}

	switch strings.TrimSpace(ntry.CdtDbtInd) {
	case models.TransactionTypeDebit:
		amount = amount.Abs().Neg()
	case models.TransactionTypeCredit:
		amount = amount.Abs()
	default:
		return models.Entry{}, &parsererror.ParseError{
			Parser: parserName,
			Field:  "CdtDbtInd",
			Value:  ntry.CdtDbtInd,
			Err:    errors.New("expected CRDT or DBIT"),
		}
	}

	field, rawDate := "ValDt", ntry.ValDt.Value()
	if strings.TrimSpace(rawDate) == "" {
		field, rawDate = "BookgDt", ntry.BookgDt.Value()
	}
	date, err := dateutils.ParseISODate(rawDate)
	if err != nil {
		return models.Entry{}, &parsererror.ParseError{Parser: parserName, Field: field, Value: rawDate, Err: err}
	}

	return models.Entry{
		Date:      date,
		Amount:    amount,
		Narrative: ntry.AddtlNtryInf,
	}, nil
}

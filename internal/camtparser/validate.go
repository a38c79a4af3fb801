package camtparser

import (
	"fmt"
	"os"

	"fjacquet/camt-qif/internal/logging"

	"gopkg.in/xmlpath.v2"
)

var (
	statementPath = xmlpath.MustCompile("//BkToCstmrStmt/Stmt")
	accountPath   = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Acct/Id/IBAN")
	entryPath     = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Ntry")
)

// ValidateFormat reports whether the file at path looks like a CAMT.053
// statement with an IBAN account. Content problems yield false without error;
// only I/O failures are returned as errors.
func (p *Parser) ValidateFormat(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("error opening XML file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close XML file",
				logging.Field{Key: logging.FieldFile, Value: path})
		}
	}()

	root, err := xmlpath.ParseDecoder(newDecoder(f))
	if err != nil {
		p.logger.WithError(err).Debug("File is not valid XML",
			logging.Field{Key: logging.FieldFile, Value: path})
		return false, nil
	}

	if !statementPath.Exists(root) {
		p.logger.Debug("Missing BkToCstmrStmt/Stmt element, not a CAMT.053 file",
			logging.Field{Key: logging.FieldFile, Value: path})
		return false, nil
	}

	if iban, ok := accountPath.String(root); !ok || iban == "" {
		p.logger.Debug("Missing statement account IBAN",
			logging.Field{Key: logging.FieldFile, Value: path})
		return false, nil
	}

	entries := 0
	for iter := entryPath.Iter(root); iter.Next(); {
		entries++
	}

	p.logger.Debug("File is a valid CAMT.053 XML",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: entries})
	return true, nil
}

// Package parsererror defines the typed errors surfaced by the conversion pipeline.
package parsererror

import "fmt"

// ParseError represents a statement field that could not be parsed.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that does not conform to the
// expected format.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// UnrecognizedNarrativeError is returned when no narrative grammar matches an
// entry description. It is fatal for the whole run.
type UnrecognizedNarrativeError struct {
	Narrative string
}

func (e *UnrecognizedNarrativeError) Error() string {
	return fmt.Sprintf("transaction type not supported for %q", e.Narrative)
}

// InvalidComplementError is returned when a complement is requested for a
// record that is not a transfer between registered accounts.
type InvalidComplementError struct {
	Account string
	Counter string
}

func (e *InvalidComplementError) Error() string {
	if e.Counter == "" {
		return fmt.Sprintf("complement available only for transfer transactions: %s has no counter account", e.Account)
	}
	return fmt.Sprintf("complement available only for transfer transactions: %s -> %s is not a registered transfer",
		e.Account, e.Counter)
}

// UnresolvedAccountError is returned when an account identifier cannot be
// rendered at all because it is blank.
type UnresolvedAccountError struct {
	Account string
	Source  string // Optional: statement file the account came from
}

func (e *UnresolvedAccountError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("unresolved account %q in %s", e.Account, e.Source)
	}
	return fmt.Sprintf("unresolved account %q", e.Account)
}

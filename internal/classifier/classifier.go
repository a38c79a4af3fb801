// Package classifier turns free-text statement narratives into structured
// classifications by trying an ordered list of grammars.
package classifier

import (
	"errors"

	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
	"fjacquet/camt-qif/internal/parsererror"
)

// Classifier tries its grammars in order; the first match wins.
type Classifier struct {
	grammars []Grammar
	logger   logging.Logger
}

// New creates a Classifier over grammars, tried in the given order.
func New(grammars ...Grammar) (*Classifier, error) {
	if len(grammars) == 0 {
		return nil, errors.New("classifier requires at least one grammar")
	}
	for _, g := range grammars {
		if g == nil {
			return nil, errors.New("classifier grammar must not be nil")
		}
	}

	return &Classifier{
		grammars: append([]Grammar(nil), grammars...),
	}, nil
}

// Default returns a Classifier with the card, sepa, institution and interest grammars.
func Default() *Classifier {
	c, _ := New(CardGrammar{}, SEPAGrammar{}, InstitutionGrammar{}, InterestGrammar{})
	return c
}

// SetLogger sets the logger used for match diagnostics.
func (c *Classifier) SetLogger(logger logging.Logger) {
	c.logger = logger
}

// Grammars returns the grammar names in priority order.
func (c *Classifier) Grammars() []string {
	names := make([]string, len(c.grammars))
	for i, g := range c.grammars {
		names[i] = g.Name()
	}
	return names
}

// Classify returns the classification of the first grammar matching narrative.
// It fails with *parsererror.UnrecognizedNarrativeError when none matches.
func (c *Classifier) Classify(narrative string) (models.Classification, error) {
	for _, g := range c.grammars {
		classification, ok := g.Match(narrative)
		if !ok {
			continue
		}
		if c.logger != nil {
			c.logger.Debug("Narrative classified",
				logging.Field{Key: logging.FieldGrammar, Value: g.Name()},
				logging.Field{Key: logging.FieldPayee, Value: classification.Payee})
		}
		return classification, nil
	}

	return models.Classification{}, &parsererror.UnrecognizedNarrativeError{Narrative: narrative}
}

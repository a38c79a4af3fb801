package classifier

import (
	"regexp"
	"strings"

	"fjacquet/camt-qif/internal/models"
)

// Grammar recognizes one family of narrative descriptions.
// Implementations must be stateless and safe for concurrent use.
type Grammar interface {
	// Match classifies narrative, reporting false when the grammar does not apply.
	Match(narrative string) (models.Classification, bool)

	// Name returns the name of this grammar for logging and debugging purposes.
	Name() string
}

var (
	cardPattern        = regexp.MustCompile(`(?P<subtype>[GB])EA.+(\d{2}.){4}\d{2}(?P<payee>.+),PAS(\d+)`)
	sepaPattern        = regexp.MustCompile(`/TRTP/.+`)
	sepaMarkerPattern  = regexp.MustCompile(`/(TRTP|CSID|NAME|MARF|REMI|IBAN|BIC|EREF)/`)
	institutionPattern = regexp.MustCompile(`^\s*(?P<payee>ABN AMRO Bank N\.V\.)\s+(?P<memo>\w+)`)
	interestPattern    = regexp.MustCompile(`ACCOUNT BALANCED\s+(?P<memo>CREDIT INTEREST.+)For interest rates`)
)

// CardGrammar matches point-of-sale (BEA) and cash machine (GEA) narratives.
// The subtype letter selects the kind and the whole narrative becomes the memo.
type CardGrammar struct{}

// Name implements Grammar.
func (CardGrammar) Name() string { return "card" }

// Match implements Grammar.
func (CardGrammar) Match(narrative string) (models.Classification, bool) {
	m := cardPattern.FindStringSubmatch(narrative)
	if m == nil {
		return models.Classification{}, false
	}

	kind := models.KindCash
	if m[cardPattern.SubexpIndex("subtype")] == "B" {
		kind = models.KindBank
	}

	return models.Classification{
		Kind:  kind,
		Payee: strings.TrimSpace(m[cardPattern.SubexpIndex("payee")]),
		Memo:  narrative,
	}, true
}

// SEPAGrammar matches structured transfer narratives made of /TAG/value runs.
type SEPAGrammar struct{}

// Name implements Grammar.
func (SEPAGrammar) Name() string { return "sepa" }

// Match implements Grammar.
func (SEPAGrammar) Match(narrative string) (models.Classification, bool) {
	if !sepaPattern.MatchString(narrative) {
		return models.Classification{}, false
	}

	return models.Classification{
		Kind:           models.KindBank,
		Payee:          SEPAField(narrative, "NAME"),
		Memo:           SEPAField(narrative, "REMI"),
		CounterAccount: SEPAField(narrative, "IBAN"),
	}, true
}

// SEPAField returns the trimmed value of tag in a structured narrative, or an
// empty string when the tag does not occur.
//
// Delimiters are scanned once from left to right. The first occurrence of tag
// wins and its value runs up to the next delimiter of any tag, or to the end of
// the text when no delimiter follows.
func SEPAField(narrative, tag string) string {
	start := -1
	for _, loc := range sepaMarkerPattern.FindAllStringSubmatchIndex(narrative, -1) {
		if start >= 0 {
			return strings.TrimSpace(narrative[start:loc[0]])
		}
		if narrative[loc[2]:loc[3]] == tag {
			start = loc[1]
		}
	}
	if start >= 0 {
		return strings.TrimSpace(narrative[start:])
	}
	return ""
}

// InstitutionGrammar matches notices issued by the bank itself, such as fees.
type InstitutionGrammar struct{}

// Name implements Grammar.
func (InstitutionGrammar) Name() string { return "institution" }

// Match implements Grammar.
func (InstitutionGrammar) Match(narrative string) (models.Classification, bool) {
	m := institutionPattern.FindStringSubmatch(narrative)
	if m == nil {
		return models.Classification{}, false
	}

	return models.Classification{
		Kind:  models.KindBank,
		Payee: m[institutionPattern.SubexpIndex("payee")],
		Memo:  m[institutionPattern.SubexpIndex("memo")],
	}, true
}

// InterestGrammar matches the periodic savings interest notice.
type InterestGrammar struct{}

// Name implements Grammar.
func (InterestGrammar) Name() string { return "interest" }

// Match implements Grammar.
func (InterestGrammar) Match(narrative string) (models.Classification, bool) {
	m := interestPattern.FindStringSubmatch(narrative)
	if m == nil {
		return models.Classification{}, false
	}

	return models.Classification{
		Kind:  models.KindBank,
		Payee: models.InstitutionName,
		Memo:  strings.TrimSpace(m[interestPattern.SubexpIndex("memo")]),
	}, true
}

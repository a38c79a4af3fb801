package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSEPAField(t *testing.T) {
	tests := []struct {
		name      string
		narrative string
		tag       string
		expected  string
	}{
		{"name", sepaNarrative, "NAME", "J SMITH"},
		{"remittance", sepaNarrative, "REMI", "INVOICE 42"},
		{"iban", sepaNarrative, "IBAN", "NL00BANK0123456789"},
		{"first tag", sepaNarrative, "TRTP", "SEPA"},
		{"trailing tag runs to end of text", sepaNarrative, "EREF", "X"},
		{"absent tag", sepaNarrative, "MARF", ""},
		{"value is trimmed", "/TRTP/SEPA/NAME/  J SMITH  /REMI/X", "NAME", "J SMITH"},
		{"empty value", "/TRTP/SEPA/NAME//REMI/X", "NAME", ""},
		{"tags in any order", "/REMI/RENT/IBAN/NL01/TRTP/SEPA/NAME/LANDLORD", "NAME", "LANDLORD"},
		{"first occurrence wins", "/TRTP/SEPA/REMI/FIRST/NAME/A/REMI/SECOND", "REMI", "FIRST"},
		{"repeat ends the first value", "/TRTP/SEPA/REMI/FIRST/REMI/SECOND", "REMI", "FIRST"},
		{"unknown tag is part of the value", "/TRTP/SEPA/NAME/A/XYZ/B/REMI/C", "NAME", "A/XYZ/B"},
		{"no delimiters", "plain text", "NAME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SEPAField(tt.narrative, tt.tag))
		})
	}
}

func TestGrammars_Decline(t *testing.T) {
	grammars := []Grammar{CardGrammar{}, SEPAGrammar{}, InstitutionGrammar{}, InterestGrammar{}}

	for _, g := range grammars {
		t.Run(g.Name(), func(t *testing.T) {
			_, ok := g.Match("nothing to see here")
			assert.False(t, ok)
		})
	}
}

func TestCardGrammar_TrimsPayee(t *testing.T) {
	got, ok := CardGrammar{}.Match("BEA   NR:XX   31.12.23/23.59    NIGHT SHOP   ,PAS7")
	assert.True(t, ok)
	assert.Equal(t, "NIGHT SHOP", got.Payee)
}

func TestInstitutionGrammar_LeadingWhitespace(t *testing.T) {
	got, ok := InstitutionGrammar{}.Match("  ABN AMRO Bank N.V.  Rente")
	assert.True(t, ok)
	assert.Equal(t, "Rente", got.Memo)
}

package convert_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/camt-qif/cmd/convert"
	"fjacquet/camt-qif/internal/config"
	"fjacquet/camt-qif/internal/container"
	"fjacquet/camt-qif/internal/fileutils"
	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/parsererror"
	"fjacquet/camt-qif/internal/qif"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ibanChecking = "NL01ABNA0123456789"
	ibanSavings  = "NL02ABNA0987654321"
)

const registryYAML = `accounts:
  checking:
    iban: NL01ABNA0123456789
    name: Checking
  savings:
    iban: NL02ABNA0987654321
    name: Savings
`

func statement(iban string, entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
<BkToCstmrStmt><Stmt><Acct><Id><IBAN>` + iban + `</IBAN></Id></Acct>
` + strings.Join(entries, "\n") + `
</Stmt></BkToCstmrStmt></Document>`
}

func ntry(amount, indicator, date, narrative string) string {
	return `<Ntry><Amt Ccy="EUR">` + amount + `</Amt><CdtDbtInd>` + indicator + `</CdtDbtInd>
<ValDt><Dt>` + date + `</Dt></ValDt><AddtlNtryInf>` + narrative + `</AddtlNtryInf></Ntry>`
}

var (
	checkingXML = statement(ibanChecking,
		ntry("12.34", "DBIT", "2024-01-03", "BEA   NR:5K3D01   03.01.24/12.34 GROCERY STORE,PAS999"),
		ntry("250.00", "DBIT", "2024-01-05", "/TRTP/SEPA OVERBOEKING/IBAN/"+ibanSavings+"/BIC/ABNANL2A/NAME/SAVINGS OWNER/REMI/MONTHLY SAVINGS"),
	)
	savingsXML = statement(ibanSavings,
		ntry("250.00", "CRDT", "2024-01-05", "/TRTP/SEPA OVERBOEKING/IBAN/"+ibanChecking+"/BIC/ABNANL2A/NAME/CHECKING OWNER/REMI/MONTHLY SAVINGS"),
	)
)

type fixture struct {
	dir      string
	registry string
	logger   *logging.MockLogger
	c        *container.Container
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	registry := filepath.Join(dir, "accounts.yaml")
	require.NoError(t, os.WriteFile(registry, []byte(registryYAML), 0600))

	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(config.Default(), logger)
	require.NoError(t, err)
	return &fixture{dir: dir, registry: registry, logger: logger, c: c}
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_TransferAcrossStatements(t *testing.T) {
	f := newFixture(t)
	checking := f.write(t, "checking.xml", checkingXML)
	savings := f.write(t, "savings.xml", savingsXML)
	output := filepath.Join(f.dir, "out.qif")

	doc, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry: f.registry,
		Sources:  []string{checking, savings},
		Output:   output,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Accepted)
	assert.Equal(t, 2, doc.Skipped)
	assert.Equal(t, 2, doc.Accounts)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, doc.Content, string(written))
	assert.Equal(t, 3, strings.Count(doc.Content, "!Type:"))
	assert.Contains(t, doc.Content, "D2024/01/05\nT-250.00\nC\nPSAVINGS OWNER\nMMONTHLY SAVINGS\nL[Savings]\n^\n")
	assert.Contains(t, doc.Content, "D2024/01/05\nT250.00\nC\nPSAVINGS OWNER\nMMONTHLY SAVINGS\nL[Checking]\n^\n")

	assert.True(t, f.logger.HasEntry("INFO", "Conversion completed"))
}

func TestRun_ParallelWorkers(t *testing.T) {
	f := newFixture(t)
	sources := []string{
		f.write(t, "checking.xml", checkingXML),
		f.write(t, "savings.xml", savingsXML),
		f.write(t, "checking-again.xml", checkingXML),
	}
	output := filepath.Join(f.dir, "out.qif")

	doc, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry: f.registry,
		Sources:  sources,
		Output:   output,
		Workers:  4,
	})
	require.NoError(t, err)

	// Which side of the transfer is accepted depends on scheduling; the totals do not.
	assert.Equal(t, 3, doc.Accepted)
	assert.Equal(t, 5, doc.Skipped)
	assert.Equal(t, 2, doc.Accounts)
	assert.Equal(t, 3, strings.Count(doc.Content, "!Type:"))
	assert.True(t, fileutils.FileExists(output))
}

func TestRun_DefaultOutputPath(t *testing.T) {
	f := newFixture(t)
	checking := f.write(t, "checking.xml", checkingXML)

	_, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry: f.registry,
		Sources:  []string{checking},
	})
	require.NoError(t, err)
	assert.True(t, fileutils.FileExists(checking+".qif"))
}

func TestRun_DuplicatesAndPrune(t *testing.T) {
	f := newFixture(t)
	checking := f.write(t, "checking.xml", checkingXML)
	savings := f.write(t, "savings.xml", savingsXML)
	output := filepath.Join(f.dir, "out.qif")
	duplicates := filepath.Join(f.dir, "dups.csv")

	doc, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry:   f.registry,
		Sources:    []string{checking, savings},
		Output:     output,
		Duplicates: duplicates,
		Prune:      true,
	})
	require.NoError(t, err)
	require.Len(t, doc.Duplicates, 2)

	report, err := os.ReadFile(duplicates)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(string(report)), "\n")+1, "header plus two rows")

	assert.False(t, fileutils.FileExists(checking))
	assert.False(t, fileutils.FileExists(savings))
	assert.True(t, fileutils.FileExists(output))
}

func TestRun_UnrecognizedNarrativeWritesNothing(t *testing.T) {
	f := newFixture(t)
	bad := f.write(t, "bad.xml", statement(ibanChecking,
		ntry("1.00", "DBIT", "2024-01-03", "SOMETHING NOBODY RECOGNISES"),
	))
	output := filepath.Join(f.dir, "out.qif")

	_, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry: f.registry,
		Sources:  []string{bad},
		Output:   output,
		Prune:    true,
	})
	require.Error(t, err)

	var narrativeErr *parsererror.UnrecognizedNarrativeError
	assert.True(t, errors.As(err, &narrativeErr))
	assert.False(t, fileutils.FileExists(output))
	assert.True(t, fileutils.FileExists(bad), "sources are kept when the run fails")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		opts   func(t *testing.T, f *fixture) convert.Options
		errMsg string
	}{
		{
			name: "no sources",
			opts: func(t *testing.T, f *fixture) convert.Options {
				return convert.Options{Registry: f.registry}
			},
			errMsg: "at least one source is required",
		},
		{
			name: "workers out of range",
			opts: func(t *testing.T, f *fixture) convert.Options {
				return convert.Options{Registry: f.registry, Sources: []string{"x.xml"}, Workers: 65}
			},
			errMsg: "workers must be between 1 and 64",
		},
		{
			name: "missing registry",
			opts: func(t *testing.T, f *fixture) convert.Options {
				return convert.Options{Registry: filepath.Join(f.dir, "absent.yaml"), Sources: []string{"x.xml"}}
			},
			errMsg: "absent.yaml",
		},
		{
			name: "only unsupported sources",
			opts: func(t *testing.T, f *fixture) convert.Options {
				return convert.Options{Registry: f.registry, Sources: []string{f.write(t, "notes.txt", "hello")}}
			},
			errMsg: "no CAMT.053 statement files found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := convert.Run(context.Background(), f.c, tt.opts(t, f))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRun_ValidateRejectsForeignXML(t *testing.T) {
	f := newFixture(t)
	foreign := f.write(t, "foreign.xml", `<?xml version="1.0"?><Invoice><Total>1</Total></Invoice>`)

	_, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry: f.registry,
		Sources:  []string{foreign},
		Output:   filepath.Join(f.dir, "out.qif"),
		Validate: true,
	})
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, foreign, formatErr.FilePath)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t)
	checking := f.write(t, "checking.xml", checkingXML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := convert.Run(ctx, f.c, convert.Options{
		Registry: f.registry,
		Sources:  []string{checking},
		Output:   filepath.Join(f.dir, "out.qif"),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		opts     convert.Options
		expected string
	}{
		{name: "explicit output", opts: convert.Options{Output: "all.qif", Sources: []string{"a.xml"}}, expected: "all.qif"},
		{name: "first source", opts: convert.Options{Sources: []string{"a.zip", "b.xml"}}, expected: "a.zip.qif"},
		{name: "no source", opts: convert.Options{}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convert.OutputPath(tt.opts, ".qif"))
		})
	}
}

func TestPrintSummary(t *testing.T) {
	doc := qif.Document{Accepted: 3, Accounts: 2, Skipped: 0}

	var buf bytes.Buffer
	convert.PrintSummary(&buf, doc, true)
	assert.Equal(t, "Process completed:\n    3 transactions inserted\n    into 2 accounts\n    and 0 transactions reported as duplicated\n", buf.String())
}

func TestPrintSummary_VerboseListsDuplicates(t *testing.T) {
	f := newFixture(t)
	checking := f.write(t, "checking.xml", checkingXML)
	savings := f.write(t, "savings.xml", savingsXML)

	doc, err := convert.Run(context.Background(), f.c, convert.Options{
		Registry: f.registry,
		Sources:  []string{checking, savings},
		Output:   filepath.Join(f.dir, "out.qif"),
	})
	require.NoError(t, err)

	var quiet, verbose bytes.Buffer
	convert.PrintSummary(&quiet, doc, false)
	convert.PrintSummary(&verbose, doc, true)

	assert.NotContains(t, quiet.String(), "Duplicated transactions")
	assert.Contains(t, verbose.String(), "Duplicated transactions:\n")
	assert.Contains(t, verbose.String(), "05/01/2024: "+ibanSavings+" -> "+ibanChecking)
}

func TestConvertCommand_Metadata(t *testing.T) {
	assert.Equal(t, "convert <registry.yaml> <source>...", convert.Cmd.Use)
	for _, name := range []string{"output", "duplicates", "prune", "validate", "workers"} {
		assert.NotNil(t, convert.Cmd.Flags().Lookup(name), name)
	}
	assert.Error(t, convert.Cmd.Args(convert.Cmd, []string{"accounts.yaml"}))
	assert.NoError(t, convert.Cmd.Args(convert.Cmd, []string{"accounts.yaml", "a.xml"}))
}

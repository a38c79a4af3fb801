// Package validate checks that files are CAMT.053 statements
package validate

import (
	"fmt"
	"io"

	"fjacquet/camt-qif/cmd/root"
	"fjacquet/camt-qif/internal/camtparser"
	"fjacquet/camt-qif/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate <file.xml>...",
	Short: "Check that files are CAMT.053 statements",
	Long: `Check that each file is well-formed XML holding at least one CAMT.053
statement with an IBAN account. The command fails when any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	Run:  validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) {
	invalid, err := Run(cmd.OutOrStdout(), root.GetContainer().GetParser(), args)
	if err != nil {
		root.Log.Fatalf("Error validating file: %v", err)
		return
	}
	if invalid > 0 {
		root.Log.Fatalf("%d of %d files are not valid CAMT.053 statements", invalid, len(args))
	}
}

// Run validates every file and reports one line per file on w. It returns the
// number of invalid files; I/O failures stop the run.
func Run(w io.Writer, parser *camtparser.Parser, files []string) (int, error) {
	invalid := 0
	for _, file := range files {
		ok, err := parser.ValidateFormat(file)
		if err != nil {
			return invalid, err
		}
		if !ok {
			invalid++
			fmt.Fprintf(w, "%s: invalid\n", file)
			continue
		}
		fmt.Fprintf(w, "%s: valid\n", file)
	}

	root.Log.Debug("Validation finished",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: logging.FieldSkipped, Value: invalid})
	return invalid, nil
}

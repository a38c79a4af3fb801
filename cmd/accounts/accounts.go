// Package accounts lists the accounts of a registry file
package accounts

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/camt-qif/cmd/root"
	"fjacquet/camt-qif/internal/container"
	"fjacquet/camt-qif/internal/registry"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

// Output formats of the accounts command
const (
	FormatTable = "table"
	FormatCSV   = "csv"
)

var format string

// Cmd represents the accounts command
var Cmd = &cobra.Command{
	Use:   "accounts <registry.yaml>",
	Short: "List the accounts of a registry",
	Long: `List the accounts of a registry file with the name used for each one in the
QIF document. Accounts without a name are shown under their IBAN.`,
	Args: cobra.ExactArgs(1),
	Run:  accountsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table or csv")
}

func accountsFunc(cmd *cobra.Command, args []string) {
	if err := Run(cmd.OutOrStdout(), root.GetContainer(), args[0], format); err != nil {
		root.Log.Fatalf("Failed to list accounts: %v", err)
	}
}

type accountRow struct {
	Section string `csv:"Section"`
	IBAN    string `csv:"IBAN"`
	Name    string `csv:"Name"`
}

// Run loads the registry at path and writes its accounts to w.
func Run(w io.Writer, c *container.Container, path, format string) error {
	reg, err := c.LoadRegistry(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatTable:
		return writeTable(w, reg.Accounts())
	case FormatCSV:
		rows := make([]accountRow, 0, reg.Len())
		for _, acc := range reg.Accounts() {
			rows = append(rows, accountRow{Section: acc.Section, IBAN: acc.IBAN, Name: acc.DisplayName()})
		}
		return gocsv.Marshal(&rows, w)
	default:
		return fmt.Errorf("unknown format %q (must be %q or %q)", format, FormatTable, FormatCSV)
	}
}

func writeTable(w io.Writer, accounts []registry.Account) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tIBAN\tNAME")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", acc.Section, acc.IBAN, acc.DisplayName())
	}
	return tw.Flush()
}

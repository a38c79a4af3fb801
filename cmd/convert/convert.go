// Package convert handles the conversion of CAMT.053 statements into one QIF document
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/camt-qif/cmd/root"
	"fjacquet/camt-qif/internal/camtparser"
	"fjacquet/camt-qif/internal/config"
	"fjacquet/camt-qif/internal/container"
	"fjacquet/camt-qif/internal/engine"
	"fjacquet/camt-qif/internal/fileutils"
	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/models"
	"fjacquet/camt-qif/internal/parsererror"
	"fjacquet/camt-qif/internal/qif"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Options describes one conversion run.
type Options struct {
	Registry   string
	Sources    []string
	Output     string
	Duplicates string
	Prune      bool
	Validate   bool
	// Workers overrides processing.workers when positive.
	Workers int
}

var flags Options

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert <registry.yaml> <source>...",
	Short: "Convert CAMT.053 statements to a QIF document",
	Long: `Convert one or more ABN AMRO CAMT.053 statements into a single QIF document.

Sources are CAMT.053 XML files or zip archives of them. The registry lists the
accounts whose transfers are mirrored into each other.

Example:
  camt-qif convert accounts.yaml 2024-01.zip 2024-02.xml -o 2024.qif --duplicates dups.csv`,
	Args: cobra.MinimumNArgs(2),
	Run:  convertFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output QIF file (default: first source with the configured extension)")
	Cmd.Flags().StringVar(&flags.Duplicates, "duplicates", "", "Write the skipped duplicate transactions to this CSV file")
	Cmd.Flags().BoolVar(&flags.Prune, "prune", false, "Delete the consumed sources after a successful write")
	Cmd.Flags().BoolVar(&flags.Validate, "validate", false, "Validate every statement file before parsing it")
	Cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of statement files processed in parallel (default: processing.workers)")
}

func convertFunc(cmd *cobra.Command, args []string) {
	opts := flags
	opts.Registry = args[0]
	opts.Sources = args[1:]

	doc, err := Run(cmd.Context(), root.GetContainer(), opts)
	if err != nil {
		root.Log.Fatalf("Conversion failed: %v", err)
		return
	}
	PrintSummary(cmd.OutOrStdout(), doc, root.SharedFlags.Verbose)
}

// OutputPath returns the document path of a run: the explicit output, or the
// first source with extension appended.
func OutputPath(opts Options, extension string) string {
	if opts.Output != "" {
		return opts.Output
	}
	if len(opts.Sources) == 0 {
		return ""
	}
	return opts.Sources[0] + extension
}

// Run loads the registry, converts every statement reachable from the sources
// and writes the document. Nothing is written when any statement fails.
func Run(ctx context.Context, c *container.Container, opts Options) (qif.Document, error) {
	if len(opts.Sources) == 0 {
		return qif.Document{}, errors.New("at least one source is required")
	}

	cfg := c.GetConfig()
	workers := cfg.Processing.Workers
	if opts.Workers != 0 {
		workers = opts.Workers
	}
	if workers < config.MinWorkers || workers > config.MaxWorkers {
		return qif.Document{}, fmt.Errorf("workers must be between %d and %d, got: %d",
			config.MinWorkers, config.MaxWorkers, workers)
	}
	output := OutputPath(opts, cfg.Output.Extension)

	logger := c.GetLogger().WithField(logging.FieldRunID, uuid.NewString())
	logger.Info("Starting conversion",
		logging.Field{Key: logging.FieldCount, Value: len(opts.Sources)},
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldWorkers, Value: workers})

	reg, err := c.LoadRegistry(opts.Registry)
	if err != nil {
		return qif.Document{}, err
	}

	collector := c.NewCollector()
	defer func() {
		if err := collector.Cleanup(); err != nil {
			logger.WithError(err).Warn("Failed to remove temporary directories")
		}
	}()

	files, err := collector.Collect(opts.Sources)
	if err != nil {
		return qif.Document{}, err
	}
	if len(files) == 0 {
		return qif.Document{}, errors.New("no CAMT.053 statement files found in the sources")
	}

	eng := c.NewEngine(reg)
	if err := processFiles(ctx, c.GetParser(), eng, files, workers, opts.Validate); err != nil {
		return qif.Document{}, err
	}

	doc := eng.Finalize()
	if err := fileutils.WriteFileAtomic(output, []byte(doc.Content), models.PermissionOutputFile); err != nil {
		return qif.Document{}, fmt.Errorf("failed to write output: %w", err)
	}

	if opts.Duplicates != "" {
		if err := qif.WriteDuplicatesCSV(opts.Duplicates, doc.Duplicates); err != nil {
			return doc, err
		}
		logger.Info("Duplicates report written",
			logging.Field{Key: logging.FieldFile, Value: opts.Duplicates},
			logging.Field{Key: logging.FieldSkipped, Value: doc.Skipped})
	}

	if opts.Prune {
		if err := collector.Prune(); err != nil {
			return doc, err
		}
	}

	logger.Info("Conversion completed",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldAccepted, Value: doc.Accepted},
		logging.Field{Key: logging.FieldSkipped, Value: doc.Skipped},
		logging.Field{Key: logging.FieldAccounts, Value: doc.Accounts})
	return doc, nil
}

// processFiles feeds every file through eng, sequentially for one worker and
// through a bounded errgroup otherwise. The first error stops the run.
func processFiles(ctx context.Context, parser *camtparser.Parser, eng *engine.Engine, files []string, workers int, validate bool) error {
	if workers <= 1 {
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := processFile(parser, eng, file, validate); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return processFile(parser, eng, file, validate)
		})
	}
	return g.Wait()
}

func processFile(parser *camtparser.Parser, eng *engine.Engine, file string, validate bool) error {
	if validate {
		ok, err := parser.ValidateFormat(file)
		if err != nil {
			return fmt.Errorf("error validating file: %w", err)
		}
		if !ok {
			return &parsererror.InvalidFormatError{
				FilePath:       file,
				ExpectedFormat: "CAMT.053",
				Msg:            "statement or account IBAN missing",
			}
		}
	}

	statements, err := parser.ParseFile(file)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if err := eng.ProcessStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary writes the end-of-run report. In verbose mode every skipped
// duplicate is listed.
func PrintSummary(w io.Writer, doc qif.Document, verbose bool) {
	fmt.Fprintf(w, "Process completed:\n    %d transactions inserted\n    into %d accounts\n    and %d transactions reported as duplicated\n",
		doc.Accepted, doc.Accounts, doc.Skipped)

	if !verbose || len(doc.Duplicates) == 0 {
		return
	}
	lines := make([]string, 0, len(doc.Duplicates))
	for _, rec := range doc.Duplicates {
		lines = append(lines, "    "+rec.String())
	}
	fmt.Fprintf(w, "Duplicated transactions:\n%s\n", strings.Join(lines, "\n"))
}

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerrlab/moke/dataio/dump"
	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/dataio/table"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Out string
}

// NewParseCommand builds the parse command: instrument log to raw store.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <log-file>",
		Short: "Parse an instrument log into a raw JSON store",
		Long: `Parse reads a <line>-delimited instrument log, extracts the field and
signal columns of every recognized block, and writes the experiments
grouped by category to a JSON store.

Example:
  moke parse 20251217/4deg.txt --out experiment_data.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "experiment_data.json", "output store path")

	return cmd
}

func runParse(opts *ParseOptions, logPath string) error {
	p := &dump.Parser{}

	doc, err := p.ParseFile(logPath)
	if err != nil {
		return commandErr("parsing instrument log", err)
	}

	for _, category := range store.Categories {
		slog.Info("parsed category", "category", category,
			"experiments", len(doc.Experiments(category)))
	}

	if err := store.Save(opts.Out, doc); err != nil {
		return commandErr("saving store", err)
	}

	slog.Info("store written", "path", opts.Out, "experiments", doc.Total())

	return nil
}

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Out string
}

// NewConvertCommand builds the convert command: raw triple text to CSV.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "convert <text-file>",
		Short:         "Convert a raw triple-column text file to CSV",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "output CSV path (default: input with .csv)")

	return cmd
}

func runConvert(opts *ConvertOptions, inPath string) error {
	outPath := opts.Out
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, ".txt") + ".csv"
	}

	in, err := os.Open(inPath)
	if err != nil {
		return commandErr("opening input", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return commandErr("creating output", err)
	}
	defer out.Close()

	rows, err := table.ConvertDump(in, out)
	if err != nil {
		return analysisErr(fmt.Sprintf("converting %s", inPath), err)
	}

	slog.Info("converted", "path", outPath, "rows", rows)

	return nil
}

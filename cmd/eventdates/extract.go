package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/evaluation"
	"github.com/fyrsmithlabs/eventdates/internal/extraction"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
)

// scoreTolerance is the drift from 1 tolerated in a patient's score sum.
const scoreTolerance = 0.001

// runOptions are the flags of extract and naive.
type runOptions struct {
	rerank      rerankFlags
	output      string
	metricsFile string
}

func (o *runOptions) register(cmd *cobra.Command) {
	o.rerank.register(cmd)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write output lines to this file instead of stdout")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "extract NOTES KEYWORDS",
		Short: "Extract and rank event dates for every patient",
		Long: `Extract candidate event dates from each patient's notes using a keyword
list, then score, merge and filter them.

NOTES has one note per line: MRN, note date, description and note text,
separated by tabs. KEYWORDS has one keyword per line: text, PRE-DATE or
POST-DATE, and an optional window, separated by tabs. A KEYWORDS file
ending in .toml is read as a TOML keyword set.

Output has one line per patient: MRN followed by date and score pairs,
best first, separated by tabs.

Examples:
  # Rank dates for all patients
  eventdates extract notes.tsv keywords.tsv > output.tsv

  # Keep at least 3 dates, drop the rest below 0.05, use 8 workers
  eventdates extract --threshold 0.05 --min-count 3 --workers 8 notes.tsv keywords.tsv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, root, opts, args[0], args[1])
		},
	}
	opts.register(cmd)
	return cmd
}

func newNaiveCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "naive NOTES",
		Short: "Rank every date found anywhere in the notes",
		Long: `Treat every date expression in every note as a candidate, then score,
merge and filter as extract does. Evaluating this output shows how many gold
dates appear in the notes at all.

Examples:
  eventdates naive notes.tsv > naive.tsv
  eventdates evaluate gold.tsv naive.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, root, opts, args[0], "")
		},
	}
	opts.register(cmd)
	return cmd
}

// runPipeline runs extract, or naive when keywordsPath is empty.
func runPipeline(cmd *cobra.Command, root *rootOptions, opts *runOptions, notesPath, keywordsPath string) error {
	a, err := newApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if err := opts.rerank.apply(cmd, a.cfg); err != nil {
		return err
	}
	ctx := a.context(cmd.Context())
	loader := a.loader()

	patients, err := loader.LoadNotes(ctx, notesPath)
	if err != nil {
		return err
	}

	var x extraction.DateExtractor
	if keywordsPath == "" {
		x = extraction.NewNaiveExtractor()
	} else {
		keywords, err := loader.LoadKeywords(ctx, keywordsPath)
		if err != nil {
			return err
		}
		x = extraction.NewExtractor(keywords, extraction.WithLogger(a.logger))
	}

	reg := prometheus.NewRegistry()
	results, err := a.service(x, reg).ProcessAll(ctx, patients)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeResults(out, results); err != nil {
		return err
	}

	if drift := evaluation.ScoreDrift(results); drift > scoreTolerance {
		a.logger.Warn(ctx, "patient scores do not add up to 1", zap.Float64("max_drift", drift))
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func writeResults(w io.Writer, results []notes.PatientDates) error {
	nw := notes.NewWriter(w)
	for _, r := range results {
		if err := nw.Write(r); err != nil {
			return err
		}
	}
	return nw.Flush()
}

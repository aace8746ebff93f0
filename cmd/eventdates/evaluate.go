package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/evaluation"
)

type evaluateOptions struct {
	misses  int
	measure string
}

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate GOLD OUTPUT",
		Short: "Score system output against gold dates",
		Long: `Compare system output with gold standard dates and report strict and
lenient recall, precision, F1, rank@1 to rank@5 and score distributions.

A strict match has the same date. A lenient match also accepts a date at
coarser or finer precision in the same year and month.

GOLD has one patient per line: MRN followed by date expressions, separated
by tabs. OUTPUT is what extract or naive writes.

With --misses N, list instead the patients with no match among their top N
dates under --measure.

Examples:
  eventdates evaluate gold.tsv output.tsv
  eventdates evaluate --misses 1 --measure lenient gold.tsv output.tsv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, root, opts, args[0], args[1])
		},
	}
	cmd.Flags().IntVar(&opts.misses, "misses", 0, "list patients with no match in their top N dates")
	cmd.Flags().StringVar(&opts.measure, "measure", "strict", "match measure for --misses (strict or lenient)")
	return cmd
}

func runEvaluate(cmd *cobra.Command, root *rootOptions, opts *evaluateOptions, goldPath, outputPath string) error {
	measure, err := evaluation.ParseMeasure(opts.measure)
	if err != nil {
		return err
	}
	if opts.misses < 0 {
		return fmt.Errorf("--misses must be >= 0, got %d", opts.misses)
	}

	a, err := newApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	ctx := a.context(cmd.Context())
	loader := a.loader()

	gold, err := loader.LoadGold(ctx, goldPath)
	if err != nil {
		return err
	}
	output, err := loader.LoadOutput(ctx, outputPath)
	if err != nil {
		return err
	}

	if drift := evaluation.ScoreDrift(output); drift > scoreTolerance {
		a.logger.Warn(ctx, "patient scores do not add up to 1", zap.Float64("max_drift", drift))
	}

	if opts.misses > 0 {
		return evaluation.WriteMisses(cmd.OutOrStdout(), evaluation.NotInTopN(gold, output, opts.misses, measure))
	}
	return evaluation.Evaluate(gold, output).WriteText(cmd.OutOrStdout())
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/answerkey"
	"github.com/zephyrtronium/answerkey/internal/batch"
	"github.com/zephyrtronium/answerkey/internal/report"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a batch of questions",
		Long: `Reads questions from the input file, computes every answer, writes the
results to the output file, and prints a summary.

Questions without formula variables are skipped. Answers whose formulas fail
to evaluate are left out of the results; the reasons are logged.`,
		Args: cobra.NoArgs,
		RunE: a.run,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", "questions.json", "question batch to read")
	f.StringP("output", "o", "results.json", "file to write results to")
	f.String("format", "json", "output format, json or yaml")
	f.Bool("strict-pi", false, "treat a bare pi as a variable name; only pi() is π")
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	questions, err := batch.Load(cfg.Input)
	if err != nil {
		return err
	}
	e, err := answerkey.NewEvaluator(cfg.EvaluatorOptions()...)
	if err != nil {
		return err
	}
	a.log.Info("processing questions", zap.String("input", cfg.Input), zap.Int("count", len(questions)))
	results, sum := answerkey.NewProcessor(e, a.log).Run(questions)
	if err := batch.Write(cfg.Output.Path, cfg.Output.Format, results); err != nil {
		return err
	}
	a.log.Debug("wrote results", zap.String("output", cfg.Output.Path), zap.String("format", cfg.Output.Format))

	rep := report.New(cmd.OutOrStdout())
	rep.Summary(sum, cfg.Output.Path)
	rep.Listing(results)
	return nil
}

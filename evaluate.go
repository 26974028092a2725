package main

import (
	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/evaluation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultDataset = "evaluation/dataset.json"

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(config.Load())
	if err != nil {
		return err
	}
	defer a.Close()

	datasetPath := defaultDataset
	if len(args) > 0 {
		datasetPath = args[0]
	}

	questions, err := evaluation.LoadDataset(datasetPath)
	if err != nil {
		return err
	}
	a.logger.Info("loaded evaluation dataset", zap.String("path", datasetPath), zap.Int("questions", len(questions)))

	if err := a.kb.Populate(ctx); err != nil {
		return err
	}

	evaluator := evaluation.NewEvaluator(a.cfg, a.retriever, a.generator, a.logger)
	report, err := evaluator.Evaluate(ctx, questions)
	if err != nil {
		return err
	}

	evaluation.PrintSummary(cmd.OutOrStdout(), report)

	if err := evaluation.SaveReport(report, evalOutput); err != nil {
		return err
	}
	a.logger.Info("evaluation complete", zap.String("report", evalOutput))
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "plantcare",
	Short: "Plant care chat backend grounded in a country plant dataset",
	Long: `plantcare serves the chat endpoint of the plant care site. Answers are
generated by a local Ollama model and grounded in per-country plant, problem
and care guide documents when the knowledge base is available.

Running without a subcommand starts the server.`,
	Version:       version,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var evalOutput string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [dataset]",
	Short: "Score retrieval and answers against a question dataset",
	Long: `Populate the knowledge base, answer every question in the dataset and
report keyword accuracy, country hit rate and F-score.

Examples:
  plantcare evaluate
  plantcare evaluate evaluation/dataset.json --output /tmp/report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the country dataset into MongoDB",
	Long: `Upsert every country record into the configured MongoDB collection so the
server can run with CONTENT_SOURCE=mongo. The embedded dataset is used
unless --file is given.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", "evaluation/results/baseline.json", "where to write the JSON report")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "dataset file to seed instead of the embedded one")

	rootCmd.AddCommand(serveCmd, evaluateCmd, seedCmd)
	rootCmd.SetVersionTemplate(fmt.Sprintf("plantcare %s\n", version))
}

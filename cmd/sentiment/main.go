package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Sentiment classification service",
	Long: `sentiment normalizes review text the way the classifier was trained
(clean, spell-correct, lemmatize, merge negations, encode, pad) and asks
the model server for a Negative / Neutral / Positive label.

Run "sentiment serve" to start the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (spelling ties, dropped tokens)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sentiment.yaml", "path to the YAML configuration")

	rootCmd.AddCommand(serveCmd, preprocessCmd, frequencyCmd, batchCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

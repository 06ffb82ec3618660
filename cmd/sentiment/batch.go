package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/sentiment/internal/batch"
)

var (
	batchInput   string
	batchOutput  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify a JSONL file of texts",
	Long: `Reads one {"id": ..., "text": ..., "format": ...} object per line and
writes one result per line, in input order. Failed items carry an
"error" field instead of a prediction.

Example:
  sentiment batch --input reviews.jsonl --output labels.jsonl --workers 8`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "input JSONL file (required)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output file (default stdout)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 4, "concurrent classifier calls")
	_ = batchCmd.MarkFlagRequired("input")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	items, err := batch.LoadFromJSONL(batchInput, logger)
	if err != nil {
		return err
	}

	_, svc, err := buildService(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	results, err := batch.Run(ctx, items, svc, batchWorkers)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := batch.WriteJSONL(out, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	logger.Info("batch complete",
		zap.Int("items", len(results)),
		zap.Int("failed", failed),
	)
	return nil
}

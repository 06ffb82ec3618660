package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/sentiment/pkg/sentiment/classifier"
	"github.com/cognicore/sentiment/pkg/sentiment/config"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded prediction counts and the latest predictions",
	Long: `Reads the prediction store named in the configuration. Only the
sqlite driver persists across runs.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of recent predictions")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Store.Driver != "sqlite" {
		return fmt.Errorf("store driver %q keeps no history between runs", cfg.Store.Driver)
	}
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	counts, err := st.Counts(ctx)
	if err != nil {
		return err
	}
	var total int64
	for _, label := range classifier.Labels {
		fmt.Printf("%-9s %d\n", label, counts[label])
		total += counts[label]
	}
	fmt.Printf("%-9s %d\n\n", "Total", total)

	recent, err := st.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	for _, p := range recent {
		fmt.Printf("%s  %-8s  %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04:05"), p.Sentiment, truncate(p.Text, 60))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/sentiment/internal/htmltext"
)

var inputFormat string

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [text]",
	Short: "Show every preprocessing stage for a text",
	Long: `Runs the pipeline without calling the classifier and prints each
stage's output, the non-padding ids and any dropped tokens.

Example:
  sentiment preprocess "This moive is not good at all"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreprocess,
}

var frequencyCmd = &cobra.Command{
	Use:   "frequency [text]",
	Short: "Print the most frequent non-stopword tokens",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFrequency,
}

func init() {
	for _, c := range []*cobra.Command{preprocessCmd, frequencyCmd} {
		c.Flags().StringVar(&inputFormat, "format", "text", "input format: text or html")
	}
}

type preprocessOutput struct {
	Cleaned    string   `json:"cleaned"`
	Corrected  string   `json:"corrected"`
	Lemmatized string   `json:"lemmatized"`
	Processed  string   `json:"processed"`
	IDs        []int    `json:"ids"`
	Dropped    []string `json:"dropped,omitempty"`
	Truncated  int      `json:"truncated,omitempty"`
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	text, err := htmltext.Normalize(strings.Join(args, " "), inputFormat)
	if err != nil {
		return err
	}
	_, _, p, err := loadPipeline()
	if err != nil {
		return err
	}
	res, err := p.Process(text)
	if err != nil {
		return err
	}

	ids := []int{}
	for _, id := range res.Sequence {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return printJSON(preprocessOutput{
		Cleaned:    res.Cleaned,
		Corrected:  res.Corrected,
		Lemmatized: res.Lemmatized,
		Processed:  res.Processed,
		IDs:        ids,
		Dropped:    res.Dropped,
		Truncated:  res.Truncated,
	})
}

func runFrequency(cmd *cobra.Command, args []string) error {
	text, err := htmltext.Normalize(strings.Join(args, " "), inputFormat)
	if err != nil {
		return err
	}
	cfg, comp, _, err := loadPipeline()
	if err != nil {
		return err
	}
	return printJSON(comp.NewFrequencyAnalyzer(cfg.Pipeline).Analyze(text))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

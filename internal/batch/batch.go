// Package batch classifies JSONL files of texts, one object per line.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/sentiment/internal/htmltext"
	"github.com/cognicore/sentiment/pkg/sentiment"
)

// Item is one input line.
type Item struct {
	ID     string `json:"id,omitempty"`
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
	Line   int    `json:"-"`
}

// Result is one output line. Exactly one of Prediction and Error is set.
type Result struct {
	ID         string                `json:"id,omitempty"`
	Line       int                   `json:"line"`
	Prediction *sentiment.Prediction `json:"prediction,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Predictor classifies one text.
type Predictor interface {
	Predict(ctx context.Context, text string) (sentiment.Prediction, error)
}

// LoadFromJSONL loads items from a JSONL file. Malformed lines and lines
// with a missing or null text are skipped with a warning.
func LoadFromJSONL(path string, logger *zap.Logger) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	items, err := Read(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Read parses JSONL from r.
func Read(r io.Reader, logger *zap.Logger) ([]Item, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var items []Item
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var raw struct {
			ID     string  `json:"id"`
			Text   *string `json:"text"`
			Format string  `json:"format"`
		}
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			logger.Warn("skipping malformed JSON", zap.Int("line", line), zap.Error(err))
			continue
		}
		// "" is a valid text, as in POST /api/predict; missing or null is not
		if raw.Text == nil {
			logger.Warn("skipping item without text", zap.Int("line", line))
			continue
		}
		items = append(items, Item{ID: raw.ID, Text: *raw.Text, Format: raw.Format, Line: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found")
	}
	return items, nil
}

// Run classifies items with at most workers predictions in flight.
// Per-item failures are reported in the results; only cancellation of
// ctx aborts the run. Results keep input order.
func Run(ctx context.Context, items []Item, p Predictor, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := Result{ID: item.ID, Line: item.Line}
			text, err := htmltext.Normalize(item.Text, item.Format)
			if err == nil {
				var pred sentiment.Prediction
				pred, err = p.Predict(gctx, text)
				if err == nil {
					res.Prediction = &pred
				}
			}
			if err != nil {
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// WriteJSONL writes one result per line.
func WriteJSONL(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

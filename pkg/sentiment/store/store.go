package store

import (
	"context"
	"time"
)

// Store persists served predictions so the dashboard can show running
// sentiment counts and recent history.
type Store interface {
	Close() error

	// RecordPrediction saves p. IDs are ULIDs, so lexical order is
	// creation order.
	RecordPrediction(ctx context.Context, p Prediction) error

	// GetPrediction returns the prediction with the given ID, or an error
	// matching internalerr.ErrNotFound.
	GetPrediction(ctx context.Context, id string) (Prediction, error)

	// Counts returns the number of stored predictions per label.
	Counts(ctx context.Context) (map[string]int64, error)

	// Recent returns up to limit predictions, newest first.
	Recent(ctx context.Context, limit int) ([]Prediction, error)
}

// Prediction is one classified input as served to a client.
type Prediction struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	PreprocessedText string    `json:"preprocessed_text"`
	Sentiment        string    `json:"sentiment"`
	Confidence       []float64 `json:"confidence"`
	Dropped          []string  `json:"dropped,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// DefaultRecentLimit applies when Recent is called with limit <= 0.
const DefaultRecentLimit = 50

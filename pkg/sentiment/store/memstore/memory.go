package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/store"
)

// Store is an in-memory implementation of store.Store. History is lost on
// restart.
type Store struct {
	mu          sync.RWMutex
	predictions map[string]store.Prediction
	counts      map[string]int64
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		predictions: make(map[string]store.Prediction),
		counts:      make(map[string]int64),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// RecordPrediction stores a copy of p. Recording the same ID twice
// replaces the earlier entry.
func (s *Store) RecordPrediction(ctx context.Context, p store.Prediction) error {
	if p.ID == "" {
		return fmt.Errorf("%w: prediction without id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.predictions[p.ID]; ok {
		s.counts[old.Sentiment]--
	}
	s.predictions[p.ID] = copyPrediction(p)
	s.counts[p.Sentiment]++
	return nil
}

// GetPrediction implements store.Store.
func (s *Store) GetPrediction(ctx context.Context, id string) (store.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.predictions[id]
	if !ok {
		return store.Prediction{}, fmt.Errorf("%w: prediction %s", internalerr.ErrNotFound, id)
	}
	return copyPrediction(p), nil
}

// Counts implements store.Store.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.counts))
	for label, n := range s.counts {
		if n > 0 {
			out[label] = n
		}
	}
	return out, nil
}

// Recent implements store.Store.
func (s *Store) Recent(ctx context.Context, limit int) ([]store.Prediction, error) {
	if limit <= 0 {
		limit = store.DefaultRecentLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.predictions))
	for id := range s.predictions {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]store.Prediction, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyPrediction(s.predictions[id]))
	}
	return out, nil
}

func copyPrediction(p store.Prediction) store.Prediction {
	p.Confidence = append([]float64(nil), p.Confidence...)
	p.Dropped = append([]string(nil), p.Dropped...)
	return p
}

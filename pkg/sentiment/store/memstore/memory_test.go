package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/store"
)

func TestRecordAndCounts(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i, label := range []string{"Positive", "Negative", "Positive"} {
		p := store.Prediction{ID: string(rune('a' + i)), Sentiment: label}
		if err := s.RecordPrediction(ctx, p); err != nil {
			t.Fatalf("RecordPrediction: %v", err)
		}
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts["Positive"] != 2 || counts["Negative"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
	if _, ok := counts["Neutral"]; ok {
		t.Errorf("Neutral should be absent, got %v", counts)
	}
}

func TestRecordReplacesSameID(t *testing.T) {
	ctx := context.Background()
	s := New()

	s.RecordPrediction(ctx, store.Prediction{ID: "x", Sentiment: "Positive"})
	s.RecordPrediction(ctx, store.Prediction{ID: "x", Sentiment: "Negative"})

	counts, _ := s.Counts(ctx)
	if counts["Positive"] != 0 || counts["Negative"] != 1 {
		t.Errorf("unexpected counts after replace: %v", counts)
	}
}

func TestRecordRequiresID(t *testing.T) {
	err := New().RecordPrediction(context.Background(), store.Prediction{Sentiment: "Positive"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"01A", "01C", "01B"} {
		s.RecordPrediction(ctx, store.Prediction{ID: id, Sentiment: "Neutral"})
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "01C" || got[1].ID != "01B" {
		t.Errorf("expected [01C 01B], got %+v", got)
	}
}

func TestGetPredictionCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.RecordPrediction(ctx, store.Prediction{ID: "p", Sentiment: "Positive", Confidence: []float64{0.1, 0.2, 0.7}})

	p, err := s.GetPrediction(ctx, "p")
	if err != nil {
		t.Fatalf("GetPrediction: %v", err)
	}
	p.Confidence[0] = 9

	again, _ := s.GetPrediction(ctx, "p")
	if again.Confidence[0] != 0.1 {
		t.Errorf("stored confidence mutated: %v", again.Confidence)
	}

	if _, err := s.GetPrediction(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

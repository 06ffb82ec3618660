// Package sentiment is the service facade: it owns the loaded
// preprocessing pipeline, the classifier and the prediction store, and
// exposes the operations served over HTTP and the CLI.
package sentiment

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/sentiment/pkg/sentiment/classifier"
	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/preprocess"
	"github.com/cognicore/sentiment/pkg/sentiment/store"
)

// Prediction is the result of classifying one input.
type Prediction = store.Prediction

// Service is the sentiment engine. It is immutable after New apart from
// the store, and safe for concurrent use.
type Service struct {
	pipeline   *preprocess.Pipeline
	classifier classifier.Classifier
	frequency  *preprocess.FrequencyAnalyzer
	store      store.Store
	logger     *zap.Logger
	now        func() time.Time

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Service. Pipeline and Classifier are required.
type Options struct {
	Pipeline   *preprocess.Pipeline
	Classifier classifier.Classifier
	Frequency  *preprocess.FrequencyAnalyzer
	// Store records predictions. Nil disables history.
	Store  store.Store
	Logger *zap.Logger
	// Now overrides the clock used for record timestamps.
	Now func() time.Time
}

// New creates a Service with the given dependencies.
func New(opts Options) (*Service, error) {
	if opts.Pipeline == nil || opts.Classifier == nil {
		return nil, fmt.Errorf("%w: service needs a pipeline and a classifier", internalerr.ErrInvalidConfig)
	}
	if opts.Frequency == nil {
		opts.Frequency = preprocess.NewFrequencyAnalyzer(nil, preprocess.DefaultTopK)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		pipeline:   opts.Pipeline,
		classifier: opts.Classifier,
		frequency:  opts.Frequency,
		store:      opts.Store,
		logger:     opts.Logger,
		now:        opts.Now,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close releases the store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Preprocess runs the pipeline without classifying.
func (s *Service) Preprocess(text string) (preprocess.Result, error) {
	res, err := s.pipeline.Process(text)
	if err != nil {
		s.logPipelineError(text, err)
	}
	return res, err
}

// Predict normalizes text, classifies the padded sequence and records the
// outcome. The returned confidence is the classifier output unchanged.
func (s *Service) Predict(ctx context.Context, text string) (Prediction, error) {
	res, err := s.Preprocess(text)
	if err != nil {
		return Prediction{}, err
	}

	probs, err := s.classifier.Predict(ctx, res.Sequence)
	if err != nil {
		if !errors.Is(err, internalerr.ErrInference) {
			err = fmt.Errorf("%w: %v", internalerr.ErrInference, err)
		}
		s.logger.Error("classifier call failed", zap.Error(err))
		return Prediction{}, err
	}
	label, err := classifier.Label(probs)
	if err != nil {
		s.logger.Error("classifier output rejected", zap.Error(err), zap.Float64s("output", probs))
		return Prediction{}, err
	}

	p := Prediction{
		ID:               s.newID(),
		Text:             text,
		PreprocessedText: res.Processed,
		Sentiment:        label,
		Confidence:       probs,
		Dropped:          res.Dropped,
		CreatedAt:        s.now(),
	}

	if s.store != nil {
		// history is best effort; the caller still gets its prediction
		if err := s.store.RecordPrediction(ctx, p); err != nil {
			s.logger.Warn("record prediction failed", zap.String("id", p.ID), zap.Error(err))
		}
	}
	return p, nil
}

// WordFrequency returns the most frequent non-stopword tokens of text.
func (s *Service) WordFrequency(text string) []preprocess.WordCount {
	return s.frequency.Analyze(text)
}

// Health reports liveness. A constructed Service is always healthy:
// resources are validated at startup.
func (s *Service) Health() string { return "healthy" }

// Stats summarizes recorded predictions.
type Stats struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// Stats returns counts per label. Every label is present, zero or not.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Counts: make(map[string]int64, len(classifier.Labels))}
	for _, l := range classifier.Labels {
		st.Counts[l] = 0
	}
	if s.store == nil {
		return st, nil
	}
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	for l, n := range counts {
		st.Counts[l] = n
		st.Total += n
	}
	return st, nil
}

// History returns up to limit recent predictions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]Prediction, error) {
	if s.store == nil {
		return []Prediction{}, nil
	}
	out, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Prediction{}
	}
	return out, nil
}

// Lookup returns one recorded prediction.
func (s *Service) Lookup(ctx context.Context, id string) (Prediction, error) {
	if s.store == nil {
		return Prediction{}, fmt.Errorf("%w: history disabled", internalerr.ErrNotFound)
	}
	return s.store.GetPrediction(ctx, id)
}

func (s *Service) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *Service) logPipelineError(text string, err error) {
	stage := "unknown"
	var se *internalerr.StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	s.logger.Error("pipeline internal error",
		zap.String("stage", stage),
		zap.String("text", text),
		zap.Error(err),
	)
}

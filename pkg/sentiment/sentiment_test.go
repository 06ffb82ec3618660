package sentiment

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/sentiment/pkg/sentiment/classifier"
	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/lexicon"
	"github.com/cognicore/sentiment/pkg/sentiment/preprocess"
	"github.com/cognicore/sentiment/pkg/sentiment/spell"
	"github.com/cognicore/sentiment/pkg/sentiment/stoplist"
	"github.com/cognicore/sentiment/pkg/sentiment/store"
	"github.com/cognicore/sentiment/pkg/sentiment/store/memstore"
	"github.com/cognicore/sentiment/pkg/sentiment/store/sqlite"
	"github.com/cognicore/sentiment/pkg/sentiment/vocab"
)

func testPipeline(t *testing.T, corrector preprocess.Corrector) *preprocess.Pipeline {
	t.Helper()

	if corrector == nil {
		var entries []spell.Entry
		for _, w := range []string{"this", "movie", "is", "not", "good", "at", "all", "great", "bad"} {
			entries = append(entries, spell.Entry{Term: w, Count: 10})
		}
		corrector = spell.NewCorrector(spell.NewIndex(entries, spell.DefaultOptions()), spell.DefaultMaxEditDistance, nil)
	}

	lex := lexicon.New()
	lex.AddLemma("movie", lexicon.Noun)
	lex.AddLemma("be", lexicon.Verb)
	lex.AddLemma("good", lexicon.Adjective)
	lex.AddException("is", lexicon.Verb, "be")

	v, err := vocab.New(map[string]int{"movie": 1, "be": 2, "not_good": 3, "great": 4, "bad": 5}, vocab.Options{NumWords: vocab.MaxWords})
	require.NoError(t, err)

	p, err := preprocess.NewPipeline(preprocess.Options{
		Corrector:  corrector,
		Lemmatizer: lexicon.NewLemmatizer(nil, lex),
		Encoder:    v,
	})
	require.NoError(t, err)
	return p
}

func newService(t *testing.T, c classifier.Classifier, st store.Store, logger *zap.Logger) *Service {
	t.Helper()
	svc, err := New(Options{
		Pipeline:   testPipeline(t, nil),
		Classifier: c,
		Frequency:  preprocess.NewFrequencyAnalyzer(stoplist.NewManager(stoplist.English), preprocess.DefaultTopK),
		Store:      st,
		Logger:     logger,
	})
	require.NoError(t, err)
	return svc
}

func TestPredictEndToEnd(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	var seen []int
	c := classifier.Func(func(_ context.Context, seq []int) ([]float64, error) {
		seen = seq
		return []float64{0.1, 0.2, 0.7}, nil
	})
	svc := newService(t, c, st, nil)

	p, err := svc.Predict(ctx, "This movie is not good at all")
	require.NoError(t, err)

	assert.Equal(t, "This movie is not good at all", p.Text)
	assert.Equal(t, "this movie be not_good at all", p.PreprocessedText)
	assert.Equal(t, "Positive", p.Sentiment)
	assert.Equal(t, []float64{0.1, 0.2, 0.7}, p.Confidence)
	assert.NotEmpty(t, p.ID)

	require.Len(t, seen, vocab.MaxLen)
	assert.Equal(t, []int{1, 2, 3}, seen[vocab.MaxLen-3:])

	stored, err := st.GetPrediction(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Positive", stored.Sentiment)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, map[string]int64{"Negative": 0, "Neutral": 0, "Positive": 1}, stats.Counts)
}

func TestPredictIDsAreOrdered(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, classifier.Static(0.6, 0.3, 0.1), memstore.New(), nil)

	var ids []string
	for i := 0; i < 5; i++ {
		p, err := svc.Predict(ctx, "bad movie")
		require.NoError(t, err)
		assert.Equal(t, "Negative", p.Sentiment)
		ids = append(ids, p.ID)
	}
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}

	hist, err := svc.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, ids[4], hist[0].ID)
}

func TestPredictClassifierFailure(t *testing.T) {
	ctx := context.Background()

	failing := classifier.Func(func(context.Context, []int) ([]float64, error) {
		return nil, errors.New("connection refused")
	})
	_, err := newService(t, failing, nil, nil).Predict(ctx, "great")
	assert.ErrorIs(t, err, internalerr.ErrInference)

	_, err = newService(t, classifier.Static(0.5, 0.5), nil, nil).Predict(ctx, "great")
	assert.ErrorIs(t, err, internalerr.ErrInference)
}

type panicCorrector struct{}

func (panicCorrector) Correct(string) string { panic("boom") }

func TestPredictPipelineFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	called := false
	svc, err := New(Options{
		Pipeline: testPipeline(t, panicCorrector{}),
		Classifier: classifier.Func(func(context.Context, []int) ([]float64, error) {
			called = true
			return []float64{1, 0, 0}, nil
		}),
		Logger: zap.New(core),
	})
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), "some text")
	require.ErrorIs(t, err, internalerr.ErrPipeline)
	assert.False(t, called)

	entries := logs.FilterMessage("pipeline internal error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, preprocess.StageSpell, fields["stage"])
	assert.Equal(t, "some text", fields["text"])
}

type failingStore struct{ *memstore.Store }

func (failingStore) RecordPrediction(context.Context, store.Prediction) error {
	return errors.New("disk full")
}

func TestPredictStoreFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := newService(t, classifier.Static(0, 1, 0), failingStore{Store: memstore.New()}, zap.New(core))

	p, err := svc.Predict(context.Background(), "movie")
	require.NoError(t, err)
	assert.Equal(t, "Neutral", p.Sentiment)
	assert.Equal(t, 1, logs.FilterMessage("record prediction failed").Len())
}

func TestWordFrequencyAndHealth(t *testing.T) {
	svc := newService(t, classifier.Static(0, 0, 1), nil, nil)

	got := svc.WordFrequency("the movie is not good , not good")
	assert.Equal(t, []preprocess.WordCount{
		{Word: "not", Count: 2},
		{Word: "good", Count: 2},
		{Word: "movie", Count: 1},
		{Word: ",", Count: 1},
	}, got)
	assert.Equal(t, "healthy", svc.Health())
}

func TestWithoutStore(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, classifier.Static(0, 0, 1), nil, nil)

	hist, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, hist)
	assert.NotNil(t, hist)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)

	_, err = svc.Lookup(ctx, "x")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestNewRequiresPipelineAndClassifier(t *testing.T) {
	_, err := New(Options{Classifier: classifier.Static(1, 0, 0)})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestPredictUsesClock(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc, err := New(Options{
		Pipeline:   testPipeline(t, nil),
		Classifier: classifier.Static(0, 0, 1),
		Now:        func() time.Time { return at },
	})
	require.NoError(t, err)

	p, err := svc.Predict(context.Background(), "great")
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(at))
}

func TestConcurrentPredictionsAreAllRecorded(t *testing.T) {
	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	svc := newService(t, classifier.Static(0.1, 0.2, 0.7), st, zap.New(core))

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Predict(ctx, "great movie")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Zero(t, logs.FilterMessage("record prediction failed").Len())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stats.Total)
	assert.Equal(t, int64(n), stats.Counts["Positive"])

	hist, err := svc.History(ctx, n)
	require.NoError(t, err)
	assert.Len(t, hist, n)
}

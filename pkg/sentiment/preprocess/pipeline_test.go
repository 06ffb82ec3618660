package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/lexicon"
	"github.com/cognicore/sentiment/pkg/sentiment/spell"
	"github.com/cognicore/sentiment/pkg/sentiment/vocab"
)

func testPipeline(t *testing.T, logger *zap.Logger) *Pipeline {
	t.Helper()

	var entries []spell.Entry
	for _, w := range []string{"this", "movie", "is", "not", "good", "at", "all", "i", "like"} {
		entries = append(entries, spell.Entry{Term: w, Count: 100})
	}
	corrector := spell.NewCorrector(spell.NewIndex(entries, spell.DefaultOptions()), 2, logger)

	lex := lexicon.New()
	lex.AddLemma("movie", lexicon.Noun)
	lex.AddLemma("be", lexicon.Verb)
	lex.AddLemma("like", lexicon.Verb)
	lex.AddLemma("good", lexicon.Adjective)
	lex.AddException("is", lexicon.Verb, "be")

	v, err := vocab.New(map[string]int{"movie": 1, "be": 2, "not_good": 3, "not": 4, "good": 5}, vocab.Options{})
	require.NoError(t, err)

	p, err := NewPipeline(Options{
		Corrector:  corrector,
		Lemmatizer: lexicon.NewLemmatizer(nil, lex),
		Encoder:    v,
		Logger:     logger,
	})
	require.NoError(t, err)
	return p
}

func TestPipelineProcess(t *testing.T) {
	p := testPipeline(t, nil)

	res, err := p.Process("This moive is NOT good at all!")
	require.NoError(t, err)

	assert.Equal(t, "this moive is not good at all", res.Cleaned)
	assert.Equal(t, "this movie is not good at all", res.Corrected)
	assert.Equal(t, "this movie be not good at all", res.Lemmatized)
	assert.Equal(t, "this movie be not_good at all", res.Processed)

	require.Len(t, res.Sequence, vocab.MaxLen)
	assert.Equal(t, []int{1, 2, 3}, res.Sequence[vocab.MaxLen-3:])
	for _, id := range res.Sequence[:vocab.MaxLen-3] {
		assert.Zero(t, id)
	}
	assert.Equal(t, []string{"this", "at", "all"}, res.Dropped)
}

func TestPipelineEmptyInput(t *testing.T) {
	p := testPipeline(t, nil)

	res, err := p.Process("?!? 123")
	require.NoError(t, err)
	assert.Equal(t, "", res.Processed)
	assert.Equal(t, make([]int, vocab.MaxLen), res.Sequence)
}

func TestPipelineLogsDroppedTokens(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := testPipeline(t, zap.New(core))

	_, err := p.Process("i like this movie")
	require.NoError(t, err)

	entries := logs.FilterMessage("vocab: dropped tokens").All()
	require.Len(t, entries, 1)
}

type fixedCorrector string

func (c fixedCorrector) Correct(string) string { return string(c) }

func TestPipelineSplitsCorrectedContractions(t *testing.T) {
	v, err := vocab.New(map[string]int{"not_like": 1}, vocab.Options{})
	require.NoError(t, err)

	p, err := NewPipeline(Options{
		Corrector:  fixedCorrector("i cannot like it"),
		Lemmatizer: lexicon.NewLemmatizer(nil, nil),
		Encoder:    v,
	})
	require.NoError(t, err)

	res, err := p.Process("i cannt like it")
	require.NoError(t, err)
	assert.Equal(t, "i can not like it", res.Lemmatized)
	assert.Equal(t, "i can not_like it", res.Processed)
	assert.Equal(t, 1, res.Sequence[vocab.MaxLen-1])
}

type panicCorrector struct{}

func (panicCorrector) Correct(string) string { panic("index corrupted") }

func TestPipelineStageFailure(t *testing.T) {
	v, err := vocab.New(map[string]int{"a": 1}, vocab.Options{})
	require.NoError(t, err)

	p, err := NewPipeline(Options{
		Corrector:  panicCorrector{},
		Lemmatizer: lexicon.NewLemmatizer(nil, nil),
		Encoder:    v,
	})
	require.NoError(t, err)

	_, err = p.Process("anything")
	require.ErrorIs(t, err, internalerr.ErrPipeline)

	var se *internalerr.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageSpell, se.Stage)
}

func TestNewPipelineRequiresComponents(t *testing.T) {
	_, err := NewPipeline(Options{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

// Package preprocess turns raw user text into the id sequence the
// sentiment classifier was trained on.
//
// Stages run in a fixed order:
//
//	clean -> spell -> tokenize + lemmatize -> negation -> vocabulary (+ padding)
//
// Stages only read shared state; a Pipeline is safe for concurrent use.
package preprocess

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/vocab"
)

// Stage names reported in StageError and logs.
const (
	StageClean      = "clean"
	StageSpell      = "spell"
	StageLemmatize  = "lemmatize"
	StageNegation   = "negation"
	StageVocabulary = "vocabulary"
)

// Corrector fixes spelling token by token.
type Corrector interface {
	Correct(text string) string
}

// Lemmatizer reduces tokens to base forms.
type Lemmatizer interface {
	Lemmatize(text string) string
}

// Encoder maps text to a padded id sequence.
type Encoder interface {
	Encode(text string, maxLen int) vocab.Encoding
}

// Options configures a Pipeline. Corrector, Lemmatizer and Encoder are
// required.
type Options struct {
	Corrector  Corrector
	Lemmatizer Lemmatizer
	Merger     *NegationMerger
	Encoder    Encoder
	MaxLen     int
	Logger     *zap.Logger
}

// Pipeline orchestrates the preprocessing stages.
type Pipeline struct {
	corrector  Corrector
	lemmatizer Lemmatizer
	merger     *NegationMerger
	encoder    Encoder
	maxLen     int
	logger     *zap.Logger
}

// NewPipeline validates opts and builds a pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Corrector == nil || opts.Lemmatizer == nil || opts.Encoder == nil {
		return nil, fmt.Errorf("%w: pipeline needs corrector, lemmatizer and encoder", internalerr.ErrInvalidConfig)
	}
	if opts.Merger == nil {
		opts.Merger = NewNegationMerger(nil)
	}
	if opts.MaxLen <= 0 {
		opts.MaxLen = vocab.MaxLen
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pipeline{
		corrector:  opts.Corrector,
		lemmatizer: opts.Lemmatizer,
		merger:     opts.Merger,
		encoder:    opts.Encoder,
		maxLen:     opts.MaxLen,
		logger:     opts.Logger,
	}, nil
}

// Result carries the output of every stage.
type Result struct {
	Cleaned    string
	Corrected  string
	Lemmatized string
	// Processed is the text handed to the vocabulary.
	Processed string
	Sequence  []int
	Dropped   []string
	Truncated int
}

// Normalize runs the text stages only and returns the processed string.
func (p *Pipeline) Normalize(text string) (Result, error) {
	var res Result
	var err error

	if res.Cleaned, err = run(StageClean, text, Clean); err != nil {
		return res, err
	}
	if res.Corrected, err = run(StageSpell, res.Cleaned, p.corrector.Correct); err != nil {
		return res, err
	}
	if res.Lemmatized, err = run(StageLemmatize, res.Corrected, p.lemmatize); err != nil {
		return res, err
	}
	if res.Processed, err = run(StageNegation, res.Lemmatized, p.merger.Merge); err != nil {
		return res, err
	}
	return res, nil
}

// Process runs every stage and produces a sequence of exactly MaxLen ids.
func (p *Pipeline) Process(text string) (Result, error) {
	res, err := p.Normalize(text)
	if err != nil {
		return res, err
	}

	var enc vocab.Encoding
	_, err = run(StageVocabulary, res.Processed, func(s string) string {
		enc = p.encoder.Encode(s, p.maxLen)
		return s
	})
	if err != nil {
		return res, err
	}
	if len(enc.Sequence) != p.maxLen {
		return res, &internalerr.StageError{
			Stage: StageVocabulary,
			Err:   fmt.Errorf("sequence length %d, want %d", len(enc.Sequence), p.maxLen),
		}
	}

	res.Sequence = enc.Sequence
	res.Dropped = enc.Dropped
	res.Truncated = enc.Truncated

	if len(enc.Dropped) > 0 {
		p.logger.Debug("vocab: dropped tokens",
			zap.Strings("tokens", enc.Dropped),
			zap.String("processed", res.Processed),
		)
	}
	if enc.Truncated > 0 {
		p.logger.Debug("vocab: sequence truncated",
			zap.Int("discarded", enc.Truncated),
			zap.Int("max_len", p.maxLen),
		)
	}
	return res, nil
}

// lemmatize re-tokenizes corrected text first: a correction such as
// "cannot" becomes "can not" before lemmas and negation are applied.
func (p *Pipeline) lemmatize(text string) string {
	return p.lemmatizer.Lemmatize(strings.Join(TreebankTokenize(text), " "))
}

// MaxLen returns the sequence length produced by Process.
func (p *Pipeline) MaxLen() int { return p.maxLen }

// run applies fn and converts a panic into a StageError.
func run(stage, in string, fn func(string) string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &internalerr.StageError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn(in), nil
}

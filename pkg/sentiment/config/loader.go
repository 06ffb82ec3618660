package config

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/lexicon"
	"github.com/cognicore/sentiment/pkg/sentiment/preprocess"
	"github.com/cognicore/sentiment/pkg/sentiment/spell"
	"github.com/cognicore/sentiment/pkg/sentiment/stoplist"
	"github.com/cognicore/sentiment/pkg/sentiment/vocab"
)

// Loader loads all resource files and constructs components
type Loader struct {
	Resources Resources
	Pipeline  Pipeline
	Logger    *zap.Logger
}

// Components holds the loaded, read-only preprocessing state
type Components struct {
	Index      *spell.Index
	Lexicon    *lexicon.Lexicon
	Tagger     *lexicon.Tagger
	Vocabulary *vocab.Vocabulary
	Stopwords  *stoplist.Manager
}

// NewLoader returns a loader for cfg.
func NewLoader(cfg Config, logger *zap.Logger) *Loader {
	return &Loader{Resources: cfg.Resources, Pipeline: cfg.Pipeline, Logger: logger}
}

// Load reads every resource. The dictionary, vocabulary and lexicon are
// required; any failure is ErrResourceUnavailable and nothing is
// returned.
func (l *Loader) Load() (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := l.Resources
	for _, req := range []struct{ name, path string }{
		{"dictionary", r.Dictionary},
		{"vocabulary", r.Vocabulary},
		{"lexicon", r.Lexicon},
	} {
		if req.path == "" {
			return nil, internalerr.Resource(req.name, errMissingPath)
		}
	}

	distance, err := spell.ParseDistance(l.Pipeline.Distance)
	if err != nil {
		return nil, internalerr.Resource("dictionary", err)
	}

	comp := &Components{}
	var g errgroup.Group

	g.Go(func() error {
		entries, err := spell.LoadDictionary(r.Dictionary)
		if err != nil {
			return internalerr.Resource("dictionary", err)
		}
		comp.Index = spell.NewIndex(entries, spell.Options{
			MaxEditDistance: l.Pipeline.MaxEditDistance,
			PrefixLength:    l.Pipeline.PrefixLength,
			Distance:        distance,
			CountThreshold:  l.Pipeline.CountThreshold,
		})
		if comp.Index.Len() == 0 {
			return internalerr.Resource("dictionary", errEmpty)
		}
		return nil
	})

	g.Go(func() error {
		v, err := vocab.Load(r.Vocabulary, l.Pipeline.MaxWords)
		if err != nil {
			return internalerr.Resource("vocabulary", err)
		}
		comp.Vocabulary = v
		return nil
	})

	g.Go(func() error {
		lex, err := lexicon.LoadFromYAML(r.Lexicon)
		if err != nil {
			return internalerr.Resource("lexicon", err)
		}
		comp.Lexicon = lex
		return nil
	})

	g.Go(func() error {
		if r.Tags == "" {
			comp.Tagger = lexicon.NewTagger(nil)
			return nil
		}
		t, err := lexicon.LoadTagsYAML(r.Tags)
		if err != nil {
			return internalerr.Resource("tags", err)
		}
		comp.Tagger = t
		return nil
	})

	g.Go(func() error {
		if r.Stopwords == "" {
			comp.Stopwords = stoplist.NewManager(stoplist.English)
			return nil
		}
		sl, err := stoplist.LoadYAML(r.Stopwords)
		if err != nil {
			return internalerr.Resource("stopwords", err)
		}
		comp.Stopwords = sl
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := comp.Lexicon.Stats()
	logger.Info("resources loaded",
		zap.Int("dictionary_terms", comp.Index.Len()),
		zap.Int("vocabulary_words", comp.Vocabulary.Len()),
		zap.Int("num_words", comp.Vocabulary.NumWords()),
		zap.Int("lemmas", st.Lemmas),
		zap.Int("lemma_exceptions", st.Exceptions),
		zap.Int("stopwords", comp.Stopwords.Len()),
	)
	return comp, nil
}

// NewPipeline assembles the preprocessing pipeline from loaded components.
func (c *Components) NewPipeline(p Pipeline, logger *zap.Logger) (*preprocess.Pipeline, error) {
	return preprocess.NewPipeline(preprocess.Options{
		Corrector:  spell.NewCorrector(c.Index, p.MaxEditDistance, logger),
		Lemmatizer: lexicon.NewLemmatizer(c.Tagger, c.Lexicon),
		Merger:     preprocess.NewNegationMerger(nil),
		Encoder:    c.Vocabulary,
		MaxLen:     p.MaxLen,
		Logger:     logger,
	})
}

// NewFrequencyAnalyzer builds the word-frequency analyzer.
func (c *Components) NewFrequencyAnalyzer(p Pipeline) *preprocess.FrequencyAnalyzer {
	return preprocess.NewFrequencyAnalyzer(c.Stopwords, p.TopK)
}

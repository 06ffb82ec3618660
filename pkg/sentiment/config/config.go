package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/preprocess"
	"github.com/cognicore/sentiment/pkg/sentiment/spell"
	"github.com/cognicore/sentiment/pkg/sentiment/vocab"
)

// Config is the service configuration file.
type Config struct {
	Server     Server     `yaml:"server"`
	Resources  Resources  `yaml:"resources"`
	Pipeline   Pipeline   `yaml:"pipeline"`
	Classifier Classifier `yaml:"classifier"`
	Store      Store      `yaml:"store"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Resources lists the files loaded once at startup.
type Resources struct {
	Dictionary string `yaml:"dictionary"` // "term count" per line
	Vocabulary string `yaml:"vocabulary"` // tokenizer state JSON
	Lexicon    string `yaml:"lexicon"`    // lemma YAML
	Tags       string `yaml:"tags"`       // optional word -> Penn tag overrides
	Stopwords  string `yaml:"stopwords"`  // optional, English when empty
}

// Pipeline holds preprocessing parameters.
type Pipeline struct {
	MaxLen          int    `yaml:"max_len"`
	MaxWords        int    `yaml:"max_words"`
	MaxEditDistance int    `yaml:"max_edit_distance"`
	PrefixLength    int    `yaml:"prefix_length"`
	Distance        string `yaml:"distance"`
	CountThreshold  int64  `yaml:"count_threshold"`
	TopK            int    `yaml:"top_k"`
}

// Classifier points at the model server.
type Classifier struct {
	URL string `yaml:"url"`
	// Timeout bounds one model call. Zero waits indefinitely.
	Timeout time.Duration `yaml:"timeout"`
}

// Store selects where predictions are recorded.
type Store struct {
	Driver string `yaml:"driver"` // sqlite | memory | none
	Path   string `yaml:"path"`
}

// Default returns the configuration the model was trained with.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        ":5000",
			CORSOrigins: []string{"*"},
		},
		Pipeline: Pipeline{
			MaxLen:          vocab.MaxLen,
			MaxWords:        vocab.MaxWords,
			MaxEditDistance: spell.DefaultMaxEditDistance,
			PrefixLength:    spell.DefaultPrefixLength,
			Distance:        spell.OSA.String(),
			CountThreshold:  1,
			TopK:            preprocess.DefaultTopK,
		},
		Store: Store{Driver: "memory"},
	}
}

// Load reads a YAML config file over Default. Relative resource and
// store paths are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{
		&cfg.Resources.Dictionary,
		&cfg.Resources.Vocabulary,
		&cfg.Resources.Lexicon,
		&cfg.Resources.Tags,
		&cfg.Resources.Stopwords,
		&cfg.Store.Path,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges. Resource existence is checked by Loader.
func (c Config) Validate() error {
	p := c.Pipeline
	switch {
	case p.MaxLen <= 0:
		return fmt.Errorf("%w: pipeline.max_len must be positive", internalerr.ErrInvalidConfig)
	case p.MaxWords <= 0:
		return fmt.Errorf("%w: pipeline.max_words must be positive", internalerr.ErrInvalidConfig)
	case p.MaxEditDistance < 0:
		return fmt.Errorf("%w: pipeline.max_edit_distance must not be negative", internalerr.ErrInvalidConfig)
	case p.PrefixLength <= p.MaxEditDistance:
		return fmt.Errorf("%w: pipeline.prefix_length must exceed max_edit_distance", internalerr.ErrInvalidConfig)
	case p.TopK <= 0:
		return fmt.Errorf("%w: pipeline.top_k must be positive", internalerr.ErrInvalidConfig)
	}
	if _, err := spell.ParseDistance(p.Distance); err != nil {
		return fmt.Errorf("%w: pipeline.distance: %v", internalerr.ErrInvalidConfig, err)
	}
	if c.Classifier.Timeout < 0 {
		return fmt.Errorf("%w: classifier.timeout must not be negative", internalerr.ErrInvalidConfig)
	}

	switch c.Store.Driver {
	case "memory", "none", "":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path required for sqlite", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", internalerr.ErrInvalidConfig, c.Store.Driver)
	}
	return nil
}

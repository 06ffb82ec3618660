package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cognicore/sentiment/pkg/sentiment"
	"github.com/cognicore/sentiment/pkg/sentiment/classifier"
	"github.com/cognicore/sentiment/pkg/sentiment/config"
	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/preprocess"
	"github.com/cognicore/sentiment/pkg/sentiment/store"
	"github.com/cognicore/sentiment/pkg/sentiment/store/memstore"
	"github.com/cognicore/sentiment/pkg/sentiment/store/sqlite"
)

// loadPipeline reads the config and every resource it names.
func loadPipeline() (config.Config, *config.Components, *preprocess.Pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, nil, err
	}
	comp, err := config.NewLoader(cfg, logger).Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	p, err := comp.NewPipeline(cfg.Pipeline, logger)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, comp, p, nil
}

func openStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		st, err := sqlite.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.Path, err)
		}
		return st, nil
	case "none":
		return nil, nil
	default:
		return memstore.New(), nil
	}
}

func newClassifier(cfg config.Classifier) (classifier.Classifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: classifier.url is required", internalerr.ErrInvalidConfig)
	}
	client := http.DefaultClient
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &classifier.Remote{URL: cfg.URL, HTTPClient: client}, nil
}

// buildService wires the full prediction path. The caller closes the
// returned service.
func buildService(ctx context.Context) (config.Config, *sentiment.Service, error) {
	cfg, comp, p, err := loadPipeline()
	if err != nil {
		return cfg, nil, err
	}
	c, err := newClassifier(cfg.Classifier)
	if err != nil {
		return cfg, nil, err
	}
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return cfg, nil, err
	}

	svc, err := sentiment.New(sentiment.Options{
		Pipeline:   p,
		Classifier: c,
		Frequency:  comp.NewFrequencyAnalyzer(cfg.Pipeline),
		Store:      st,
		Logger:     logger,
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return cfg, nil, err
	}
	return cfg, svc, nil
}

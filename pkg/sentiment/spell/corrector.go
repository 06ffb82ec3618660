package spell

import (
	"strings"

	"go.uber.org/zap"
)

// Corrector rewrites each whitespace-delimited token to its closest
// dictionary term. Tokens without a candidate pass through unchanged.
type Corrector struct {
	index       *Index
	maxDistance int
	logger      *zap.Logger
}

// NewCorrector creates a corrector over ix. maxDistance <= 0 selects the
// index's own maximum.
func NewCorrector(ix *Index, maxDistance int, logger *zap.Logger) *Corrector {
	if maxDistance <= 0 {
		maxDistance = ix.MaxEditDistance()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Corrector{index: ix, maxDistance: maxDistance, logger: logger}
}

// CorrectWord returns the correction for a single token.
func (c *Corrector) CorrectWord(word string) string {
	suggestions := c.index.Lookup(word, c.maxDistance)
	if len(suggestions) == 0 {
		return word
	}
	if len(suggestions) > 1 {
		terms := make([]string, len(suggestions))
		for i, s := range suggestions {
			terms[i] = s.Term
		}
		c.logger.Debug("spell: correction tie",
			zap.String("token", word),
			zap.String("chosen", suggestions[0].Term),
			zap.Int("distance", suggestions[0].Distance),
			zap.Strings("candidates", terms),
		)
	}
	return suggestions[0].Term
}

// Correct applies CorrectWord to every token and rejoins with single spaces.
func (c *Corrector) Correct(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = c.CorrectWord(w)
	}
	return strings.Join(words, " ")
}

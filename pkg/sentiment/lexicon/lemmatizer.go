package lexicon

import "strings"

// Lemmatizer reduces each token to its base form using a Tagger to pick
// the word class and a Lexicon to find the lemma.
type Lemmatizer struct {
	tagger  *Tagger
	lexicon *Lexicon
}

// NewLemmatizer combines a tagger and a lexicon. A nil tagger selects the
// built-in closed-class table.
func NewLemmatizer(tagger *Tagger, lex *Lexicon) *Lemmatizer {
	if tagger == nil {
		tagger = NewTagger(nil)
	}
	if lex == nil {
		lex = New()
	}
	return &Lemmatizer{tagger: tagger, lexicon: lex}
}

// LemmatizeWord tags token in isolation and returns its lemma.
func (l *Lemmatizer) LemmatizeWord(token string) string {
	return l.lexicon.Lemmatize(token, WordNetPOS(l.tagger.Tag(token)))
}

// Lemmatize applies LemmatizeWord to every whitespace-delimited token.
func (l *Lemmatizer) Lemmatize(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = l.LemmatizeWord(w)
	}
	return strings.Join(words, " ")
}

package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// POS is a coarse word class used to key lemma lookups.
type POS string

const (
	Noun      POS = "noun"
	Verb      POS = "verb"
	Adjective POS = "adj"
	Adverb    POS = "adv"
)

// ParsePOS accepts the long names and the WordNet single-letter codes.
func ParsePOS(s string) (POS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "noun", "n":
		return Noun, nil
	case "verb", "v":
		return Verb, nil
	case "adj", "adjective", "a", "s":
		return Adjective, nil
	case "adv", "adverb", "r":
		return Adverb, nil
	}
	return "", fmt.Errorf("unknown part of speech %q", s)
}

type substitution struct{ old, new string }

// Detachment rules applied to inflected forms, per word class.
var substitutions = map[POS][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	Adverb: nil,
}

// Lexicon is a lexical knowledge base: the set of base forms known per
// word class, and exception lists for irregular inflections
// ("went" -> "go"). It is built at startup and only read afterwards.
type Lexicon struct {
	// lemma -> classes it is a base form for
	lemmas map[string]map[POS]struct{}

	// class -> inflected form -> base forms
	exceptions map[POS]map[string][]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		lemmas:     make(map[string]map[POS]struct{}),
		exceptions: make(map[POS]map[string][]string),
	}
}

// LoadFromYAML loads a lexicon file.
//
// Expected format:
//
//	lemmas:
//	  noun: [movie, dog, child]
//	  verb: [be, go, like]
//	  adj: [good]
//	exceptions:
//	  verb:
//	    is: [be]
//	    went: [go]
//	  noun:
//	    children: [child]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Lemmas     map[string][]string            `yaml:"lemmas"`
		Exceptions map[string]map[string][]string `yaml:"exceptions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	lex := New()
	for name, words := range doc.Lemmas {
		pos, err := ParsePOS(name)
		if err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", path, err)
		}
		for _, w := range words {
			lex.AddLemma(w, pos)
		}
	}
	for name, forms := range doc.Exceptions {
		pos, err := ParsePOS(name)
		if err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", path, err)
		}
		for form, bases := range forms {
			lex.AddException(form, pos, bases...)
		}
	}

	if len(lex.lemmas) == 0 {
		return nil, fmt.Errorf("lexicon %s: no lemmas", path)
	}
	return lex, nil
}

// AddLemma registers word as a base form of the given class.
func (l *Lexicon) AddLemma(word string, pos POS) {
	word = strings.ToLower(word)
	set, ok := l.lemmas[word]
	if !ok {
		set = make(map[POS]struct{}, 1)
		l.lemmas[word] = set
	}
	set[pos] = struct{}{}
}

// AddException records irregular base forms for an inflected form.
func (l *Lexicon) AddException(form string, pos POS, bases ...string) {
	m, ok := l.exceptions[pos]
	if !ok {
		m = make(map[string][]string)
		l.exceptions[pos] = m
	}
	form = strings.ToLower(form)
	for _, b := range bases {
		m[form] = append(m[form], strings.ToLower(b))
	}
}

// HasLemma reports whether word is a known base form for pos.
func (l *Lexicon) HasLemma(word string, pos POS) bool {
	_, ok := l.lemmas[word][pos]
	return ok
}

// Morphy returns the known base forms of form for pos, in discovery order.
// Exception lists win outright. Otherwise detachment rules are applied
// once, and then repeatedly to their own output until some candidate is
// a known lemma.
func (l *Lexicon) Morphy(form string, pos POS) []string {
	if bases, ok := l.exceptions[pos][form]; ok {
		return l.filter(append([]string{form}, bases...), pos)
	}

	forms := applySubstitutions([]string{form}, pos)
	if found := l.filter(append([]string{form}, forms...), pos); len(found) > 0 {
		return found
	}

	for len(forms) > 0 {
		forms = applySubstitutions(forms, pos)
		if found := l.filter(forms, pos); len(found) > 0 {
			return found
		}
	}
	return nil
}

// Lemmatize returns the shortest base form of word for pos, or word
// itself when none is known. Equal lengths keep discovery order.
func (l *Lexicon) Lemmatize(word string, pos POS) string {
	lemmas := l.Morphy(word, pos)
	if len(lemmas) == 0 {
		return word
	}
	best := lemmas[0]
	for _, c := range lemmas[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return best
}

func (l *Lexicon) filter(forms []string, pos POS) []string {
	var out []string
	seen := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		if !l.HasLemma(f, pos) {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func applySubstitutions(forms []string, pos POS) []string {
	var out []string
	for _, f := range forms {
		for _, s := range substitutions[pos] {
			if strings.HasSuffix(f, s.old) {
				out = append(out, f[:len(f)-len(s.old)]+s.new)
			}
		}
	}
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	st := LexiconStats{Lemmas: len(l.lemmas)}
	for _, m := range l.exceptions {
		st.Exceptions += len(m)
	}
	return st
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Lemmas     int // distinct base forms
	Exceptions int // irregular forms across all classes
}

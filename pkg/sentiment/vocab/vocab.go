// Package vocab maps preprocessed text to the fixed-length integer
// sequences the classifier consumes, using a vocabulary frozen at
// training time.
package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	// MaxWords bounds the id space when the vocabulary file does not.
	MaxWords = 15000
	// MaxLen is the classifier's input length.
	MaxLen = 100
)

// Vocabulary is a read-only token -> id mapping.
type Vocabulary struct {
	index    map[string]int
	numWords int
	oovID    int
	filters  string
	lower    bool
	split    string
}

// Options mirror the tokenizer settings stored with a vocabulary.
type Options struct {
	// NumWords keeps only ids below it; 0 keeps all.
	NumWords int
	// OOVToken, when present in the index, replaces unknown tokens
	// instead of dropping them.
	OOVToken string
	// Filters lists characters replaced by Split before splitting.
	Filters string
	Lower   bool
	// Split is the separator; "" splits on any whitespace.
	Split string
}

// New builds a vocabulary from an explicit index.
func New(index map[string]int, opts Options) (*Vocabulary, error) {
	if len(index) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	v := &Vocabulary{
		index:    make(map[string]int, len(index)),
		numWords: opts.NumWords,
		filters:  opts.Filters,
		lower:    opts.Lower,
		split:    opts.Split,
	}
	for w, id := range index {
		if id <= 0 {
			return nil, fmt.Errorf("vocabulary: token %q has non-positive id %d", w, id)
		}
		v.index[w] = id
	}
	if opts.OOVToken != "" {
		v.oovID = v.index[opts.OOVToken]
	}
	return v, nil
}

// state covers both the Keras Tokenizer.to_json() document and a plain
// {"word_index": {...}, "num_words": N} object.
type state struct {
	ClassName string       `json:"class_name"`
	Config    *stateConfig `json:"config"`
	stateConfig
}

type stateConfig struct {
	NumWords  *int            `json:"num_words"`
	Filters   *string         `json:"filters"`
	Lower     *bool           `json:"lower"`
	Split     *string         `json:"split"`
	OOVToken  *string         `json:"oov_token"`
	WordIndex json.RawMessage `json:"word_index"`
}

// Load reads a serialized tokenizer state. defaultNumWords applies when
// the file carries no num_words.
func Load(path string, defaultNumWords int) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	v, err := Parse(data, defaultNumWords)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes a serialized tokenizer state.
func Parse(data []byte, defaultNumWords int) (*Vocabulary, error) {
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cfg := st.stateConfig
	if st.Config != nil {
		cfg = *st.Config
	}

	index, err := decodeWordIndex(cfg.WordIndex)
	if err != nil {
		return nil, err
	}

	opts := Options{NumWords: defaultNumWords}
	if cfg.NumWords != nil {
		opts.NumWords = *cfg.NumWords
	}
	if cfg.OOVToken != nil {
		opts.OOVToken = *cfg.OOVToken
	}
	if cfg.Filters != nil {
		opts.Filters = *cfg.Filters
	}
	if cfg.Lower != nil {
		opts.Lower = *cfg.Lower
	}
	if cfg.Split != nil {
		opts.Split = *cfg.Split
	}
	return New(index, opts)
}

// decodeWordIndex accepts an object or a JSON string holding an object.
func decodeWordIndex(raw json.RawMessage) (map[string]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("missing word_index")
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("word_index: %w", err)
		}
		raw = json.RawMessage(inner)
	}
	var index map[string]int
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("word_index: %w", err)
	}
	return index, nil
}

// Len returns the number of indexed tokens.
func (v *Vocabulary) Len() int { return len(v.index) }

// NumWords returns the id bound, 0 when unbounded.
func (v *Vocabulary) NumWords() int { return v.numWords }

// ID returns the id for token and whether it is usable under NumWords.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.index[token]
	if !ok || (v.numWords > 0 && id >= v.numWords) {
		return 0, false
	}
	return id, true
}

// Words splits text the way the vocabulary was built: optional
// lowercasing, filter characters replaced by the separator, empty
// pieces removed.
func (v *Vocabulary) Words(text string) []string {
	if v.lower {
		text = strings.ToLower(text)
	}
	sep := v.split
	if v.filters != "" {
		repl := sep
		if repl == "" {
			repl = " "
		}
		text = strings.Map(func(r rune) rune {
			if strings.ContainsRune(v.filters, r) {
				return []rune(repl)[0]
			}
			return r
		}, text)
	}
	if sep == "" {
		return strings.Fields(text)
	}
	var words []string
	for _, w := range strings.Split(text, sep) {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// TextToSequence maps each word to its id. Words without a usable id are
// replaced by the OOV id when one is configured and dropped otherwise;
// dropped words are returned alongside the ids.
func (v *Vocabulary) TextToSequence(text string) (ids []int, dropped []string) {
	for _, w := range v.Words(text) {
		if id, ok := v.ID(w); ok {
			ids = append(ids, id)
			continue
		}
		if v.oovID > 0 && (v.numWords == 0 || v.oovID < v.numWords) {
			ids = append(ids, v.oovID)
			continue
		}
		dropped = append(dropped, w)
	}
	return ids, dropped
}

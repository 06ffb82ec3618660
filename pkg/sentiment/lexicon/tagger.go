package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// closedClass holds Penn Treebank tags for function words.
var closedClass = map[string]string{
	"a": "DT", "an": "DT", "the": "DT", "this": "DT", "that": "DT",
	"these": "DT", "those": "DT", "all": "DT", "each": "DT", "every": "DT",
	"some": "DT", "any": "DT", "no": "DT",
	"i": "PRP", "you": "PRP", "he": "PRP", "she": "PRP", "it": "PRP",
	"we": "PRP", "they": "PRP", "me": "PRP", "him": "PRP", "her": "PRP",
	"us": "PRP", "them": "PRP",
	"my": "PRP$", "your": "PRP$", "his": "PRP$", "its": "PRP$",
	"our": "PRP$", "their": "PRP$",
	"at": "IN", "in": "IN", "on": "IN", "of": "IN", "for": "IN",
	"with": "IN", "from": "IN", "by": "IN", "about": "IN", "as": "IN",
	"into": "IN", "than": "IN", "if": "IN", "because": "IN", "without": "IN",
	"and": "CC", "or": "CC", "but": "CC", "nor": "CC",
	"can": "MD", "could": "MD", "will": "MD", "would": "MD", "shall": "MD",
	"should": "MD", "may": "MD", "might": "MD", "must": "MD",
	"be": "VB", "is": "VBZ", "are": "VBP", "am": "VBP", "was": "VBD",
	"were": "VBD", "been": "VBN", "being": "VBG",
	"do": "VB", "does": "VBZ", "did": "VBD", "done": "VBN",
	"have": "VB", "has": "VBZ", "had": "VBD",
	"not": "RB", "never": "RB", "very": "RB", "too": "RB", "so": "RB",
	"also": "RB", "just": "RB", "really": "RB", "well": "RB",
	"to": "TO", "there": "EX",
	"better": "JJR", "worse": "JJR", "more": "JJR", "less": "JJR",
	"best": "JJS", "worst": "JJS", "most": "JJS", "least": "JJS",
	"what": "WP", "who": "WP", "which": "WDT", "when": "WRB", "where": "WRB",
	"why": "WRB", "how": "WRB",
}

// Tagger assigns a Penn Treebank tag to a single token. Words missing
// from the table get a suffix guess; a tags file exported from the tag
// dictionary used at training time removes the guesswork. It never
// looks at neighbouring tokens: "like" is tagged the same in "i like it"
// and "like a charm".
type Tagger struct {
	tags map[string]string
}

// NewTagger creates a tagger with the built-in closed-class table plus
// the given word -> tag overrides.
func NewTagger(overrides map[string]string) *Tagger {
	tags := make(map[string]string, len(closedClass)+len(overrides))
	for w, tag := range closedClass {
		tags[w] = tag
	}
	for w, tag := range overrides {
		tags[strings.ToLower(w)] = strings.ToUpper(tag)
	}
	return &Tagger{tags: tags}
}

// LoadTagsYAML reads "tags: {word: TAG}" into a tagger.
func LoadTagsYAML(path string) (*Tagger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Tags map[string]string `yaml:"tags"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tags %s: %w", path, err)
	}
	return NewTagger(doc.Tags), nil
}

// Tag returns the tag for token: the table entry when present, otherwise
// a guess from the suffix.
func (t *Tagger) Tag(token string) string {
	if tag, ok := t.tags[token]; ok {
		return tag
	}
	return suffixTag(token)
}

func suffixTag(w string) string {
	switch {
	case strings.HasSuffix(w, "ly"):
		return "RB"
	case strings.HasSuffix(w, "ing"):
		return "VBG"
	case strings.HasSuffix(w, "ed"):
		return "VBD"
	case strings.HasSuffix(w, "ful"), strings.HasSuffix(w, "less"),
		strings.HasSuffix(w, "ous"), strings.HasSuffix(w, "ive"),
		strings.HasSuffix(w, "able"), strings.HasSuffix(w, "ible"),
		strings.HasSuffix(w, "al"), strings.HasSuffix(w, "ic"):
		return "JJ"
	case strings.HasSuffix(w, "est") && len(w) > 5:
		return "JJS"
	case strings.HasSuffix(w, "ness"), strings.HasSuffix(w, "tion"),
		strings.HasSuffix(w, "ment"), strings.HasSuffix(w, "ity"):
		return "NN"
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 3:
		return "NNS"
	}
	return "NN"
}

// WordNetPOS maps a Penn tag to a lemma class by its first letter.
// Anything other than J, N, V or R is treated as a noun.
func WordNetPOS(tag string) POS {
	if tag == "" {
		return Noun
	}
	switch strings.ToUpper(tag[:1]) {
	case "J":
		return Adjective
	case "V":
		return Verb
	case "R":
		return Adverb
	default:
		return Noun
	}
}

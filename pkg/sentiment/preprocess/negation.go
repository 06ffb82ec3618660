package preprocess

import "strings"

// NegationCues is the closed set of negation words.
var NegationCues = []string{
	"no", "not", "nor", "neither", "never", "none", "nobody", "nothing",
	"nowhere", "cannot", "isn't", "wasn't", "aren't", "weren't", "don't",
	"doesn't", "didn't", "hasn't", "haven't", "hadn't", "won't", "wouldn't",
	"can't", "couldn't", "shouldn't", "mightn't", "mustn't", "without",
}

// NegationMerger joins each negation cue with the token that follows it
// ("not like" -> "not_like").
type NegationMerger struct {
	cues map[string]struct{}
}

// NewNegationMerger creates a merger for the given cues.
// A nil or empty slice selects NegationCues.
func NewNegationMerger(cues []string) *NegationMerger {
	if len(cues) == 0 {
		cues = NegationCues
	}
	set := make(map[string]struct{}, len(cues))
	for _, c := range cues {
		set[strings.ToLower(c)] = struct{}{}
	}
	return &NegationMerger{cues: set}
}

// IsCue reports whether token is a negation cue. Matching is whole-token.
func (m *NegationMerger) IsCue(token string) bool {
	_, ok := m.cues[token]
	return ok
}

// Merge scans left to right once. A cue and its successor become one
// token and the pair is consumed, so "not not good" yields "not_not good".
// A trailing cue is left alone.
func (m *NegationMerger) Merge(text string) string {
	tokens := strings.Fields(text)
	result := make([]string, 0, len(tokens))

	i := 0
	for i < len(tokens) {
		if m.IsCue(tokens[i]) && i+1 < len(tokens) {
			result = append(result, tokens[i]+"_"+tokens[i+1])
			i += 2
			continue
		}
		result = append(result, tokens[i])
		i++
	}

	return strings.Join(result, " ")
}

package preprocess

import (
	"sort"
	"strings"

	"github.com/cognicore/sentiment/pkg/sentiment/stoplist"
)

// DefaultTopK is the number of entries returned by FrequencyAnalyzer.Analyze.
const DefaultTopK = 20

// WordCount is one row of a frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FrequencyAnalyzer counts words in raw text for diagnostics. It does not
// run the cleaning, spelling or lemma stages.
type FrequencyAnalyzer struct {
	stops *stoplist.Manager
	topK  int
}

// NewFrequencyAnalyzer filters with stops minus the negation cues, so
// cues are always counted. topK <= 0 selects DefaultTopK.
func NewFrequencyAnalyzer(stops *stoplist.Manager, topK int) *FrequencyAnalyzer {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &FrequencyAnalyzer{
		stops: stops.Without(NegationCues),
		topK:  topK,
	}
}

// Analyze splits text on whitespace, drops stopwords and returns the
// most frequent words. Stopword membership is checked on the lowercased
// token; counts are kept per original token.
func (a *FrequencyAnalyzer) Analyze(text string) []WordCount {
	var kept []string
	for _, tok := range strings.Fields(text) {
		if a.stops.IsStop(strings.ToLower(tok)) {
			continue
		}
		kept = append(kept, tok)
	}
	return Top(kept, a.topK)
}

// Top counts tokens and returns the k most frequent, by descending count.
// Equal counts keep first-occurrence order.
func Top(tokens []string, k int) []WordCount {
	index := make(map[string]int)
	var table []WordCount

	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			table[i].Count++
			continue
		}
		index[tok] = len(table)
		table = append(table, WordCount{Word: tok, Count: 1})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})

	if k >= 0 && len(table) > k {
		table = table[:k]
	}
	if table == nil {
		table = []WordCount{}
	}
	return table
}

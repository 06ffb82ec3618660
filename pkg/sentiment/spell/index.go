// Package spell implements dictionary-based spelling correction using
// symmetric delete candidate generation.
//
// An Index is built once from a frequency dictionary. For every term it
// stores the deletion signatures of the term's prefix (the prefix with up
// to MaxEditDistance characters removed). A lookup generates the same
// signatures for the query, probes the index, and verifies each candidate
// with a real edit-distance computation. The index is read-only after
// construction and safe for concurrent use.
package spell

import (
	"sort"
	"unicode/utf8"
)

const (
	DefaultMaxEditDistance = 2
	DefaultPrefixLength    = 7
)

// Entry is one line of the frequency dictionary.
type Entry struct {
	Term  string
	Count int64
}

// Suggestion is a correction candidate.
type Suggestion struct {
	Term     string `json:"term"`
	Distance int    `json:"distance"`
	Count    int64  `json:"count"`
}

// Options configures index construction.
type Options struct {
	MaxEditDistance int
	PrefixLength    int
	Distance        Distance
	// CountThreshold drops entries seen fewer times. Zero means 1.
	CountThreshold int64
}

// DefaultOptions returns the settings the classifier vocabulary was built with.
func DefaultOptions() Options {
	return Options{
		MaxEditDistance: DefaultMaxEditDistance,
		PrefixLength:    DefaultPrefixLength,
		Distance:        OSA,
		CountThreshold:  1,
	}
}

// Index maps deletion signatures to the dictionary terms that produce them.
type Index struct {
	words        map[string]int64
	deletes      map[string][]string
	maxDistance  int
	prefixLength int
	maxLength    int
	distance     Distance
}

// NewIndex builds an index from entries. Duplicate terms have their
// counts summed; terms keep their first-seen order inside each signature.
func NewIndex(entries []Entry, opts Options) *Index {
	if opts.MaxEditDistance < 0 {
		opts.MaxEditDistance = 0
	}
	if opts.PrefixLength <= opts.MaxEditDistance {
		opts.PrefixLength = opts.MaxEditDistance + 1
	}
	if opts.CountThreshold <= 0 {
		opts.CountThreshold = 1
	}

	ix := &Index{
		words:        make(map[string]int64, len(entries)),
		deletes:      make(map[string][]string),
		maxDistance:  opts.MaxEditDistance,
		prefixLength: opts.PrefixLength,
		distance:     opts.Distance,
	}

	for _, e := range entries {
		if e.Term == "" || e.Count < opts.CountThreshold {
			continue
		}
		if _, seen := ix.words[e.Term]; seen {
			ix.words[e.Term] += e.Count
			continue
		}
		ix.words[e.Term] = e.Count
		if n := utf8.RuneCountInString(e.Term); n > ix.maxLength {
			ix.maxLength = n
		}
		for sig := range ix.signatures(e.Term) {
			ix.deletes[sig] = append(ix.deletes[sig], e.Term)
		}
	}

	return ix
}

// signatures returns the prefix of term plus every string reachable from
// it by deleting up to maxDistance runes.
func (ix *Index) signatures(term string) map[string]struct{} {
	r := []rune(term)
	if len(r) > ix.prefixLength {
		r = r[:ix.prefixLength]
	}
	set := map[string]struct{}{string(r): {}}
	ix.collectDeletes(r, 0, set)
	return set
}

func (ix *Index) collectDeletes(word []rune, depth int, set map[string]struct{}) {
	depth++
	for i := range word {
		del := deleteAt(word, i)
		key := string(del)
		if _, ok := set[key]; ok {
			continue
		}
		set[key] = struct{}{}
		if depth < ix.maxDistance {
			ix.collectDeletes(del, depth, set)
		}
	}
}

func deleteAt(word []rune, i int) []rune {
	out := make([]rune, 0, len(word)-1)
	out = append(out, word[:i]...)
	return append(out, word[i+1:]...)
}

// Len returns the number of dictionary terms.
func (ix *Index) Len() int { return len(ix.words) }

// Count returns the frequency of term, or 0 when absent.
func (ix *Index) Count(term string) int64 { return ix.words[term] }

// MaxEditDistance returns the distance the index was built for.
func (ix *Index) MaxEditDistance() int { return ix.maxDistance }

// Lookup returns every term at the smallest edit distance <= maxDistance
// from token, ordered by descending count and then by term. An exact
// dictionary hit is returned alone. maxDistance is capped at the index's
// MaxEditDistance.
func (ix *Index) Lookup(token string, maxDistance int) []Suggestion {
	if maxDistance > ix.maxDistance {
		maxDistance = ix.maxDistance
	}
	if token == "" || maxDistance < 0 {
		return nil
	}

	q := []rune(token)
	if len(q)-maxDistance > ix.maxLength {
		return nil
	}
	if count, ok := ix.words[token]; ok {
		return []Suggestion{{Term: token, Distance: 0, Count: count}}
	}
	if maxDistance == 0 {
		return nil
	}

	best := maxDistance
	var results []Suggestion

	prefixLen := min(len(q), ix.prefixLength)
	candidates := []string{string(q[:prefixLen])}
	consideredDeletes := map[string]struct{}{candidates[0]: {}}
	consideredTerms := map[string]struct{}{token: {}}

	for p := 0; p < len(candidates); p++ {
		cand := []rune(candidates[p])
		lenDiff := prefixLen - len(cand)
		if lenDiff > best {
			break
		}

		for _, term := range ix.deletes[candidates[p]] {
			if _, ok := consideredTerms[term]; ok {
				continue
			}
			termLen := utf8.RuneCountInString(term)
			if abs(termLen-len(q)) > best || termLen < len(cand) {
				continue
			}
			consideredTerms[term] = struct{}{}

			d := ix.distance.Compare(token, term, best)
			if d < 0 {
				continue
			}
			if d < best {
				best = d
				results = results[:0]
			}
			results = append(results, Suggestion{Term: term, Distance: d, Count: ix.words[term]})
		}

		if lenDiff < maxDistance && len(cand) <= ix.prefixLength {
			if lenDiff >= best {
				continue
			}
			for i := range cand {
				del := string(deleteAt(cand, i))
				if _, ok := consideredDeletes[del]; ok {
					continue
				}
				consideredDeletes[del] = struct{}{}
				candidates = append(candidates, del)
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Term < b.Term
	})
	return results
}

// ClosestMatch returns the best correction for token within maxDistance.
func (ix *Index) ClosestMatch(token string, maxDistance int) (Suggestion, bool) {
	s := ix.Lookup(token, maxDistance)
	if len(s) == 0 {
		return Suggestion{}, false
	}
	return s[0], true
}

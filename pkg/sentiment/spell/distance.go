package spell

import "fmt"

// Distance selects the edit-distance metric used to verify candidates.
type Distance int

const (
	// OSA is optimal string alignment: Levenshtein plus adjacent
	// transpositions, each substring edited at most once.
	OSA Distance = iota
	// Levenshtein counts insertions, deletions and substitutions only.
	Levenshtein
)

func (d Distance) String() string {
	switch d {
	case OSA:
		return "osa"
	case Levenshtein:
		return "levenshtein"
	default:
		return fmt.Sprintf("Distance(%d)", int(d))
	}
}

// ParseDistance maps a config value to a Distance. "" selects OSA.
func ParseDistance(s string) (Distance, error) {
	switch s {
	case "", "osa", "damerau":
		return OSA, nil
	case "levenshtein":
		return Levenshtein, nil
	}
	return OSA, fmt.Errorf("unknown distance %q", s)
}

// Compare returns the distance between a and b, or -1 when it exceeds limit.
func (d Distance) Compare(a, b string, limit int) int {
	return editDistance([]rune(a), []rune(b), limit, d == OSA)
}

func editDistance(a, b []rune, limit int, transpose bool) int {
	if abs(len(a)-len(b)) > limit {
		return -1
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Three rolling rows: two back (for transpositions), previous, current.
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if transpose && i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				v = min(v, prev2[j-2]+1)
			}
			cur[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		if rowMin > limit {
			return -1
		}
		prev2, prev, cur = prev, cur, prev2
	}

	if prev[len(b)] > limit {
		return -1
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

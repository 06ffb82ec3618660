package preprocess

import (
	"regexp"
	"strings"
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

func rules(pairs ...string) []rewrite {
	out := make([]rewrite, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, rewrite{re: regexp.MustCompile(pairs[i]), repl: pairs[i+1]})
	}
	return out
}

// Penn Treebank tokenizer conventions. The classifier vocabulary was built
// from text split this way, so the rule order and replacements are fixed.
var (
	startingQuotes = rules(
		`^"`, "``",
		"(``)", " ${1} ",
		`([ \(\[{<])("|'{2})`, "${1} `` ",
	)

	punctuation = rules(
		`([:,])([^\d])`, " ${1} ${2}",
		`([:,])$`, " ${1} ",
		`\.\.\.`, " ... ",
		`[;@#$%&]`, " ${0} ",
		`([^\.])(\.)([\]\)}>"']*)\s*$`, "${1} ${2}${3} ",
		`[?!]`, " ${0} ",
		`([^'])' `, "${1} ' ",
	)

	brackets = rules(
		`[\]\[\(\)\{\}<>]`, " ${0} ",
		`--`, " -- ",
	)

	endingQuotes = rules(
		`''`, " '' ",
		`"`, " '' ",
		`([^' ])('[sS]|'[mM]|'[dD]|') `, "${1} ${2} ",
		`([^' ])('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `, "${1} ${2} ",
	)

	contractions = rules(
		`(?i)\b(can)(not)\b`, " ${1} ${2} ",
		`(?i)\b(d)('ye)\b`, " ${1} ${2} ",
		`(?i)\b(gim)(me)\b`, " ${1} ${2} ",
		`(?i)\b(gon)(na)\b`, " ${1} ${2} ",
		`(?i)\b(got)(ta)\b`, " ${1} ${2} ",
		`(?i)\b(lem)(me)\b`, " ${1} ${2} ",
		`(?i)\b(more)('n)\b`, " ${1} ${2} ",
		`(?i)\b(wan)(na)(\s)`, " ${1} ${2} ${3}",
		`(?i) ('t)(is)\b`, " ${1} ${2} ",
		`(?i) ('t)(was)\b`, " ${1} ${2} ",
	)
)

func applyRules(text string, rs []rewrite) string {
	for _, r := range rs {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}

// TreebankTokenize splits text into word and punctuation tokens.
// Clitics are separated from their host ("don't" -> "do", "n't") and
// fused forms are split ("cannot" -> "can", "not").
//
// \b, \d and \s in the rules are ASCII-only, so a non-ASCII letter ends
// a word: "écannot" splits into "é", "can", "not".
func TreebankTokenize(text string) []string {
	text = applyRules(text, startingQuotes)
	text = applyRules(text, punctuation)
	text = applyRules(text, brackets)
	text = " " + text + " "
	text = applyRules(text, endingQuotes)
	text = applyRules(text, contractions)
	return strings.Fields(text)
}

// Clean normalizes raw input into space-separated lowercase ASCII words.
// Anything that is not an ASCII letter is removed after tokenization, so
// digits, punctuation, apostrophes and accented letters disappear. Input
// without letters yields "".
func Clean(text string) string {
	tokens := TreebankTokenize(text)
	words := make([]string, 0, len(tokens))
	var current strings.Builder

	for _, tok := range tokens {
		current.Reset()
		for _, r := range tok {
			switch {
			case r >= 'a' && r <= 'z':
				current.WriteRune(r)
			case r >= 'A' && r <= 'Z':
				current.WriteRune(r + ('a' - 'A'))
			}
		}
		if current.Len() > 0 {
			words = append(words, current.String())
		}
	}

	return strings.Join(words, " ")
}

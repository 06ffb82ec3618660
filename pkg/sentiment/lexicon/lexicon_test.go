package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testLexicon() *Lexicon {
	lex := New()
	for _, w := range []string{"dog", "church", "movie", "axe", "ax", "x"} {
		lex.AddLemma(w, Noun)
	}
	for _, w := range []string{"be", "like", "go"} {
		lex.AddLemma(w, Verb)
	}
	for _, w := range []string{"good", "great"} {
		lex.AddLemma(w, Adjective)
	}
	lex.AddException("was", Verb, "be")
	lex.AddException("is", Verb, "be")
	lex.AddException("went", Verb, "go")
	lex.AddException("better", Adjective, "good")
	return lex
}

func TestLexiconLemmatize(t *testing.T) {
	lex := testLexicon()

	tests := []struct {
		word string
		pos  POS
		want string
	}{
		{"dogs", Noun, "dog"},
		{"churches", Noun, "church"},
		{"liked", Verb, "like"},
		{"was", Verb, "be"},
		{"went", Verb, "go"},
		{"better", Adjective, "good"},
		{"greatest", Adjective, "great"},
		{"axes", Noun, "ax"},
		{"xss", Noun, "x"},
		{"dog", Noun, "dog"},
		{"unknownword", Noun, "unknownword"},
		{"dogs", Adverb, "dogs"},
	}

	for _, tt := range tests {
		if got := lex.Lemmatize(tt.word, tt.pos); got != tt.want {
			t.Errorf("Lemmatize(%q, %s) = %q, want %q", tt.word, tt.pos, got, tt.want)
		}
	}
}

func TestMorphyCandidateOrder(t *testing.T) {
	lex := testLexicon()

	got := lex.Morphy("axes", Noun)
	if diff := cmp.Diff([]string{"axe", "ax"}, got); diff != "" {
		t.Errorf("Morphy(axes) mismatch (-want +got):\n%s", diff)
	}
	if got := lex.Lemmatize("axes", Noun); got != "ax" {
		t.Errorf("Lemmatize(axes) = %q, want shortest candidate ax", got)
	}
}

func TestMorphyExceptionRequiresKnownLemma(t *testing.T) {
	lex := New()
	lex.AddLemma("go", Verb)
	lex.AddException("went", Verb, "wend")

	if got := lex.Morphy("went", Verb); len(got) != 0 {
		t.Errorf("Morphy should filter unknown exception targets, got %v", got)
	}
}

func TestParsePOS(t *testing.T) {
	for in, want := range map[string]POS{"n": Noun, "VERB": Verb, "a": Adjective, "s": Adjective, "r": Adverb} {
		got, err := ParsePOS(in)
		if err != nil || got != want {
			t.Errorf("ParsePOS(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePOS("pronoun"); err == nil {
		t.Error("expected error for unknown class")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `lemmas:
  noun: [movie, child]
  verb: [be]
exceptions:
  noun:
    children: [child]
  verb:
    were: [be]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if got := lex.Lemmatize("children", Noun); got != "child" {
		t.Errorf("children -> %q, want child", got)
	}
	if got := lex.Lemmatize("were", Verb); got != "be" {
		t.Errorf("were -> %q, want be", got)
	}
	stats := lex.Stats()
	if stats.Lemmas != 3 || stats.Exceptions != 2 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFromYAML(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("lemmas: {}\n"), 0644)
	if _, err := LoadFromYAML(empty); err == nil {
		t.Error("expected error for lexicon without lemmas")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("lemmas:\n  pronoun: [it]\n"), 0644)
	if _, err := LoadFromYAML(bad); err == nil {
		t.Error("expected error for unknown class")
	}
}

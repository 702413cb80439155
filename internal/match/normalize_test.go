package match

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercase", input: "Yesterday", want: "yesterday"},
		{name: "diacritics stripped", input: "Beyoncé", want: "beyonce"},
		{name: "punctuation to space", input: "Don't Stop Me Now!", want: "don t stop me now"},
		{name: "whitespace collapsed", input: "  The   Beatles  ", want: "the beatles"},
		{name: "mixed", input: "Señorita (Remix) — DJ Ötzi", want: "senorita remix dj otzi"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "Yesterday", "Beyoncé — Halo (Live)", "  A   B  ", "ÀÉÎÕÜ çñ"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStringSimilarity(t *testing.T) {
	tc := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Yesterday", b: "Yesterday", want: 1.0},
		{name: "equal after normalization", a: "YESTERDAY", b: "yesterday", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "Yesterday", b: "", want: 0},
		{name: "punctuation only vs empty", a: "!!!", b: "", want: 1.0},
		{name: "disjoint", a: "abcd", b: "wxyz", want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := StringSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("StringSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStringSimilaritySelfIsOne(t *testing.T) {
	for _, s := range []string{"a", "Yesterday", "The Beatles - Help!", "ao vivo em São Paulo"} {
		if got := StringSimilarity(s, s); got != 1.0 {
			t.Errorf("StringSimilarity(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"", "abc"},
		{"yesterday", "yesterdays"},
		{"abc", "abc"},
	}
	for _, p := range pairs {
		ab := Levenshtein(p[0], p[1])
		ba := Levenshtein(p[1], p[0])
		if ab != ba {
			t.Errorf("Levenshtein(%q,%q)=%d but Levenshtein(%q,%q)=%d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}

	if d := Levenshtein("kitten", "sitting"); d != 3 {
		t.Errorf("Levenshtein(kitten, sitting) = %d, want 3", d)
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tc := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "the beatles", b: "The Beatles", want: 1.0},
		{name: "reordered", a: "Beatles The", b: "the beatles", want: 1.0},
		{name: "half overlap", a: "a b", b: "b c", want: 1.0 / 3.0},
		{name: "disjoint", a: "a b", b: "c d", want: 0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "a", b: "", want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := JaccardSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("JaccardSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSplitArtists(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single", input: "The Beatles", want: []string{"The Beatles"}},
		{name: "ampersand", input: "Simon & Garfunkel", want: []string{"Simon", "Garfunkel"}},
		{name: "feat dot", input: "Daft Punk feat. Pharrell Williams", want: []string{"Daft Punk", "Pharrell Williams"}},
		{name: "featuring", input: "Rihanna featuring Jay-Z", want: []string{"Rihanna", "Jay-Z"}},
		{name: "ft", input: "Eminem ft. Dido", want: []string{"Eminem", "Dido"}},
		{name: "comma and x", input: "A, B x C", want: []string{"A", "B", "C"}},
		{name: "with", input: "Elton John with Dua Lipa", want: []string{"Elton John", "Dua Lipa"}},
		{name: "semicolon", input: "A; B", want: []string{"A", "B"}},
		{name: "plus", input: "A + B", want: []string{"A", "B"}},
		{name: "empty", input: "   ", want: nil},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArtists(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArtists(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

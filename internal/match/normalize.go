// package match implements cross-catalog track resolution.
//
// The pipeline is: normalize text → classify variants → score candidates →
// run the tiered search chain → produce a [models.ResolutionResult]. All of
// it is pure except the chain, which queries a destination catalog through
// the [CatalogSearcher] interface.
package match

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks left behind by canonical decomposition,
// so "Beyoncé" and "Beyonce" normalize to the same string.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, replaces punctuation with spaces,
// and collapses whitespace. It is total (empty in, empty out) and idempotent.
func Normalize(v string) string {
	if v == "" {
		return ""
	}

	s := strings.ToLower(v)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// levenshtein is safe for concurrent use; Distance does not mutate the metric.
var levenshtein = metrics.NewLevenshtein()

// Levenshtein returns the classic edit distance between a and b.
func Levenshtein(a, b string) int {
	return levenshtein.Distance(a, b)
}

// StringSimilarity scores two strings in [0,1] as 1 - dist/maxLen over their
// normalized forms. Equal normalized forms score 1.0, including the case
// where both sides normalize to empty; a single empty side scores 0.
func StringSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}

	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	return 1.0 - float64(Levenshtein(na, nb))/float64(maxLen)
}

// JaccardSimilarity computes intersection/union over the normalized,
// whitespace-tokenized word sets of a and b.
func JaccardSimilarity(a, b string) float64 {
	ta := strings.Fields(Normalize(a))
	tb := strings.Fields(Normalize(b))
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}

	union := len(set)
	intersection := 0
	seen := make(map[string]bool, len(tb))
	for _, tok := range tb {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if set[tok] {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

// artistSeparators splits a joined artist credit into individual names.
// Longer tokens first so "featuring" wins over "feat.".
var artistSeparators = []string{
	" featuring ", " feat. ", " feat ", " ft. ", " ft ", " with ", " x ", " & ", " + ", ",", ";",
}

// SplitArtists breaks a single joined artist string ("A feat. B & C") into
// an ordered list of individual artist names, primary first.
func SplitArtists(joined string) []string {
	trimmed := strings.TrimSpace(joined)
	if trimmed == "" {
		return nil
	}

	parts := []string{trimmed}
	for _, sep := range artistSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, splitFold(p, sep)...)
		}
		parts = next
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return []string{trimmed}
	}
	return out
}

// splitFold splits s around case-insensitive occurrences of sep, preserving
// the original casing of the pieces.
func splitFold(s, sep string) []string {
	lower := strings.ToLower(s)
	var parts []string
	for {
		idx := strings.Index(lower, sep)
		if idx < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(sep):]
		lower = lower[idx+len(sep):]
	}
}

package match

import (
	"regexp"
	"sort"
)

// VariantTag classifies a track's edition. A track may carry several tags;
// a track with none is tagged [VariantOriginal].
type VariantTag string

const (
	VariantOriginal     VariantTag = "original"
	VariantLive         VariantTag = "live"
	VariantRemix        VariantTag = "remix"
	VariantAcoustic     VariantTag = "acoustic"
	VariantInstrumental VariantTag = "instrumental"
	VariantRadioEdit    VariantTag = "radio_edit"
	VariantExplicit     VariantTag = "explicit"
	VariantRemaster     VariantTag = "remaster"
)

// variantPatterns maps each tag to its detection pattern. The contract is the
// keyword/tag mapping, not the regex mechanics; "ao vivo" and "en vivo" cover
// the common non-English live markers.
var variantPatterns = map[VariantTag]*regexp.Regexp{
	VariantLive:         regexp.MustCompile(`(?i)\blive\b|\bao vivo\b|\ben vivo\b|\bin concert\b|\bunplugged\b`),
	VariantRemix:        regexp.MustCompile(`(?i)\bremix\b|\bre-mix\b|\bclub mix\b|\bdance mix\b|\bextended mix\b`),
	VariantAcoustic:     regexp.MustCompile(`(?i)\bacoustic\b|\bacustico\b|\bunplugged\b`),
	VariantInstrumental: regexp.MustCompile(`(?i)\binstrumental\b`),
	VariantRadioEdit:    regexp.MustCompile(`(?i)\bradio edit\b|\bradio version\b|\bsingle version\b|\bsingle edit\b`),
	VariantExplicit:     regexp.MustCompile(`(?i)\bexplicit\b`),
	VariantRemaster:     regexp.MustCompile(`(?i)\bremaster(ed)?\b|\bre-master(ed)?\b`),
}

// Classify detects edition tags over a track's name and album, case
// insensitively. An empty result collapses to {original}. Deterministic and
// pure; the returned slice is sorted for stable comparison.
func Classify(name, album string) []VariantTag {
	haystack := name + " " + album

	var tags []VariantTag
	for tag, pattern := range variantPatterns {
		if pattern.MatchString(haystack) {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return []VariantTag{VariantOriginal}
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// HasVariant reports whether the tag set contains the given tag.
func HasVariant(tags []VariantTag, tag VariantTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

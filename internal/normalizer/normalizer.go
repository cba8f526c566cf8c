// Package normalizer handles Unicode normalization of Hebrew text and of the
// Latin transliterations published alongside it.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Hebrew points and cantillation marks. Maqaf (U+05BE) and sof pasuq
// (U+05C3) are punctuation and survive StripPoints.
var hebrewPoints = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0591, Hi: 0x05BD, Stride: 1},
		{Lo: 0x05BF, Hi: 0x05BF, Stride: 1},
		{Lo: 0x05C1, Hi: 0x05C2, Stride: 1},
		{Lo: 0x05C4, Hi: 0x05C5, Stride: 1},
		{Lo: 0x05C7, Hi: 0x05C7, Stride: 1},
	},
}

// foldMap maps characters that do not decompose into ASCII.
var foldMap = map[rune]string{
	'ʼ': "", 'ʻ': "", '\'': "", '’': "", '‘': "",
	'ß': "ss", 'æ': "ae", 'œ': "oe", 'ø': "o", 'ł': "l",
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NFC returns s in Unicode normalization form C.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// StripPoints removes vowel points and cantillation marks, leaving
// consonantal Hebrew text in NFC.
func StripPoints(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(hebrewPoints)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CleanTransliteration maps modifier-letter apostrophes to ASCII and
// normalizes to NFC.
func CleanTransliteration(s string) string {
	s = strings.NewReplacer("ʼ", "'", "ʻ", "'").Replace(s)
	return NFC(strings.TrimSpace(s))
}

// CleanVerseText removes markup, collapses whitespace and normalizes to NFC.
func CleanVerseText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return NFC(strings.TrimSpace(s))
}

// FoldChar folds a single character to lowercase ASCII, dropping diacritics
// and apostrophes.
func FoldChar(r rune) string {
	lower := unicode.ToLower(r)
	if ascii, ok := foldMap[lower]; ok {
		return ascii
	}

	// Fall back to Unicode decomposition
	var result strings.Builder
	for _, c := range norm.NFD.String(string(lower)) {
		if unicode.Is(unicode.Mn, c) {
			continue
		}
		result.WriteRune(c)
	}
	return result.String()
}

// Fold folds a transliteration for comparison: lowercase, no diacritics, no
// apostrophes.
func Fold(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range strings.TrimSpace(s) {
		result.WriteString(FoldChar(r))
	}

	return result.String()
}

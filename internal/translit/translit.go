// Package translit produces a simplified Latin pronunciation guide for
// pointed Hebrew text.
package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	firstLetter = 'א' // alef
	lastLetter  = 'ת' // tav
	firstPoint  = '\u0591'
	lastPoint   = '\u05C7'

	dagesh   = '\u05BC'
	shinDot  = '\u05C1'
	sinDot   = '\u05C2'
	holam    = '\u05B9'
	holamVav = '\u05BA'
	maqaf    = '\u05BE'
	paseq    = '\u05C0'
	sofPasuq = '\u05C3'
	nunHafu  = '\u05C6'

	vav = 'ו'
	yod = 'י'
	sin = 'ש'
)

// cluster is a consonant together with the points written on it.
type cluster struct {
	base  rune
	marks []rune
}

func (c cluster) has(mark rune) bool {
	for _, m := range c.marks {
		if m == mark {
			return true
		}
	}
	return false
}

// Transliterator maps pointed Hebrew to Latin letters using a fixed
// consonant and vowel table.
type Transliterator struct {
	consonants map[rune]string
	hardened   map[rune]string
	vowels     map[rune]string
}

// NewTransliterator creates a transliterator with the standard rule tables.
func NewTransliterator() *Transliterator {
	return &Transliterator{
		consonants: consonantRules,
		hardened:   dageshRules,
		vowels:     vowelRules,
	}
}

// Transliterate converts a Hebrew text to a lowercase Latin guide. Words are
// separated by single spaces and maqaf becomes a hyphen. Characters outside
// the Hebrew block are dropped.
func (t *Transliterator) Transliterate(text string) string {
	var words []string
	for _, word := range splitWords(norm.NFD.String(text)) {
		var parts []string
		for _, part := range word {
			if s := cleanPart(t.transliterateClusters(part)); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			words = append(words, strings.Join(parts, "-"))
		}
	}
	return strings.Join(words, " ")
}

func (t *Transliterator) transliterateClusters(clusters []cluster) string {
	var result strings.Builder
	prevVowel := ""

	for _, c := range clusters {
		vowels := t.vowelsOf(c)

		switch c.base {
		case vav:
			// shuruk
			if len(vowels) == 0 && c.has(dagesh) {
				result.WriteString("u")
				prevVowel = "u"
				continue
			}
			// holam male
			if len(vowels) == 1 && (c.has(holam) || c.has(holamVav)) && !c.has(dagesh) {
				result.WriteString("o")
				prevVowel = "o"
				continue
			}
		case yod:
			// hiriq male
			if len(vowels) == 0 && !c.has(dagesh) && prevVowel == "i" {
				prevVowel = ""
				continue
			}
		}

		vowel := ""
		if len(vowels) > 0 {
			vowel = vowels[0]
		}
		result.WriteString(t.consonant(c))
		result.WriteString(vowel)
		prevVowel = vowel
	}

	return result.String()
}

func (t *Transliterator) consonant(c cluster) string {
	if c.base == sin && c.has(sinDot) {
		return "s"
	}
	if c.has(dagesh) {
		if s, ok := t.hardened[c.base]; ok {
			return s
		}
	}
	return t.consonants[c.base]
}

// vowelsOf returns the sounded vowels written on c, in mark order.
func (t *Transliterator) vowelsOf(c cluster) []string {
	var vowels []string
	for _, m := range c.marks {
		if v, ok := t.vowels[m]; ok {
			vowels = append(vowels, v)
		}
	}
	return vowels
}

// splitWords groups the runes of an NFD string into words, each word into
// maqaf-separated parts, each part into consonant clusters.
func splitWords(s string) [][][]cluster {
	var (
		words [][][]cluster
		parts [][]cluster
		part  []cluster
	)

	flushPart := func() {
		if len(part) > 0 {
			parts = append(parts, part)
		}
		part = nil
	}
	flushWord := func() {
		flushPart()
		if len(parts) > 0 {
			words = append(words, parts)
		}
		parts = nil
	}

	for _, r := range s {
		switch {
		case isLetter(r):
			part = append(part, cluster{base: r})
		case isPoint(r):
			if len(part) > 0 {
				last := &part[len(part)-1]
				last.marks = append(last.marks, r)
			}
		case r == maqaf || r == '-':
			flushPart()
		case unicode.IsSpace(r):
			flushWord()
		}
	}
	flushWord()

	return words
}

func isLetter(r rune) bool {
	return r >= firstLetter && r <= lastLetter
}

func isPoint(r rune) bool {
	if r < firstPoint || r > lastPoint {
		return false
	}
	return r != maqaf && r != paseq && r != sofPasuq && r != nunHafu
}

// cleanPart removes doubled and edge apostrophes left by silent letters.
func cleanPart(s string) string {
	for strings.Contains(s, "''") {
		s = strings.ReplaceAll(s, "''", "'")
	}
	return strings.Trim(s, "'")
}

var consonantRules = map[rune]string{
	'א': "'",  // alef
	'ב': "v",  // bet
	'ג': "g",  // gimel
	'ד': "d",  // dalet
	'ה': "h",  // he
	'ו': "v",  // vav
	'ז': "z",  // zayin
	'ח': "ch", // het
	'ט': "t",  // tet
	'י': "y",  // yod
	'ך': "kh", // final kaf
	'כ': "kh", // kaf
	'ל': "l",  // lamed
	'ם': "m",  // final mem
	'מ': "m",  // mem
	'ן': "n",  // final nun
	'נ': "n",  // nun
	'ס': "s",  // samekh
	'ע': "'",  // ayin
	'ף': "f",  // final pe
	'פ': "f",  // pe
	'ץ': "ts", // final tsadi
	'צ': "ts", // tsadi
	'ק': "q",  // qof
	'ר': "r",  // resh
	'ש': "sh", // shin
	'ת': "t",  // tav
}

// Letters whose sound changes with dagesh.
var dageshRules = map[rune]string{
	'ב': "b",
	'ך': "k",
	'כ': "k",
	'ף': "p",
	'פ': "p",
}

// Sheva is silent in this scheme and is not listed.
var vowelRules = map[rune]string{
	'\u05B1': "e", // hataf segol
	'\u05B2': "a", // hataf patah
	'\u05B3': "o", // hataf qamats
	'\u05B4': "i", // hiriq
	'\u05B5': "e", // tsere
	'\u05B6': "e", // segol
	'\u05B7': "a", // patah
	'\u05B8': "a", // qamats
	'\u05B9': "o", // holam
	'\u05BA': "o", // holam haser for vav
	'\u05BB': "u", // qubuts
	'\u05C7': "o", // qamats qatan
}

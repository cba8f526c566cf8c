// Package classify assigns part of speech, semantic category, gloss and
// frequency tier to lexicon entries.
//
// Every function here is pure: the same input always yields the same output,
// so records can be classified from any number of goroutines.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"hebvocab/internal/schema"
)

// MaxGlossLength is the longest gloss, in runes, Gloss will return.
const MaxGlossLength = 60

// glossFallbackLength bounds the fallback gloss taken from the raw definition.
const glossFallbackLength = 50

// prepositionMaxLength is the exclusive upper bound on definition length for
// the preposition rule. Longer definitions are descriptive nouns.
const prepositionMaxLength = 50

// Frequency thresholds for tiers 1 to 4. Anything below the last is tier 5.
var tierThresholds = [...]int{500, 200, 100, 50}

// posRule maps a predicate over the lower-cased short definition and
// derivation note to a part of speech.
type posRule struct {
	pos   schema.PartOfSpeech
	match func(def, derivation string) bool
}

var (
	infinitiveRe   = regexp.MustCompile(`(?:^|[;,:(]\s*)to\s`)
	evaluativeRe   = regexp.MustCompile(`\b(?:great|good|holy|evil)\b`)
	adjectiveRe    = regexp.MustCompile(`\badjective\b`)
	personalPronRe = regexp.MustCompile(`(?:^|[\s(])(?:i(?:[\s,;)]|$)|(?:he|she|you|they)(?:[\s,;.)]|$))`)
	leadingWordRe  = regexp.MustCompile(`^[a-z]+`)
)

var leadingPrepositions = map[string]bool{
	"upon": true, "from": true, "in": true, "on": true, "with": true,
	"unto": true, "into": true, "toward": true, "among": true, "between": true,
	"under": true, "over": true, "before": true, "after": true, "above": true,
	"beneath": true, "beside": true, "against": true, "within": true,
	"through": true, "by": true, "at": true,
}

// posRules is evaluated top to bottom; the first match wins.
var posRules = []posRule{
	{schema.Verb, func(def, derivation string) bool {
		return infinitiveRe.MatchString(def) ||
			strings.Contains(def, "a primitive root") ||
			strings.Contains(derivation, "primitive root")
	}},
	{schema.Adjective, func(def, _ string) bool {
		if strings.Contains(def, "to be") || strings.Contains(def, "to make") {
			return false
		}
		return adjectiveRe.MatchString(def) || evaluativeRe.MatchString(def)
	}},
	{schema.Adverb, func(def, _ string) bool {
		return strings.Contains(def, "adverb")
	}},
	{schema.Preposition, func(def, _ string) bool {
		if utf8.RuneCountInString(def) >= prepositionMaxLength {
			return false
		}
		if strings.Contains(def, "preposition") {
			return true
		}
		return leadingPrepositions[leadingWordRe.FindString(strings.TrimSpace(def))]
	}},
	{schema.Conjunction, func(def, _ string) bool {
		return strings.Contains(def, "conjunction")
	}},
	{schema.Pronoun, func(def, _ string) bool {
		return strings.Contains(def, "pronoun") || personalPronRe.MatchString(def)
	}},
	{schema.Particle, func(def, _ string) bool {
		return strings.Contains(def, "particle") || strings.Contains(def, "interjection")
	}},
}

// PartOfSpeech infers a part of speech from the short definition and the
// derivation note. Entries no rule recognizes are nouns.
func PartOfSpeech(shortDef, derivation string) schema.PartOfSpeech {
	def := strings.ToLower(shortDef)
	deriv := strings.ToLower(derivation)
	for _, rule := range posRules {
		if rule.match(def, deriv) {
			return rule.pos
		}
	}
	return schema.Noun
}

type categoryKeywords struct {
	category schema.SemanticCategory
	keywords []string
}

// categoryTable order is significant: a definition mentioning both "holy"
// and "king" is theological, not royalty.
var categoryTable = []categoryKeywords{
	{schema.CategoryTheological, []string{"god", "lord", "holy", "worship", "pray", "sacred", "divine", "covenant", "salvation"}},
	{schema.CategoryCreation, []string{"heaven", "earth", "sea", "land", "mountain", "water", "sun", "moon", "star", "tree", "animal"}},
	{schema.CategoryHuman, []string{"man", "woman", "son", "daughter", "father", "mother", "brother", "child", "people", "nation"}},
	{schema.CategoryBody, []string{"hand", "eye", "heart", "face", "mouth", "head", "foot", "blood", "bone", "flesh"}},
	{schema.CategoryAction, []string{"walk", "go", "come", "give", "take", "make", "do", "say", "speak", "hear", "see"}},
	{schema.CategoryEmotion, []string{"love", "hate", "fear", "joy", "anger", "sorrow", "peace"}},
	{schema.CategoryLegal, []string{"law", "judge", "command", "righteous", "wicked", "sin", "guilt"}},
	{schema.CategoryWarfare, []string{"sword", "war", "battle", "fight", "enemy", "army", "victory"}},
	{schema.CategoryRoyalty, []string{"king", "prince", "throne", "reign", "rule", "kingdom"}},
	{schema.CategoryWorship, []string{"priest", "sacrifice", "altar", "temple", "offering", "tabernacle"}},
	{schema.CategoryTime, []string{"day", "night", "year", "month", "morning", "evening", "eternity"}},
	{schema.CategoryQuantity, []string{"all", "many", "few", "great", "small", "number"}},
	{schema.CategoryAbstract, []string{"truth", "wisdom", "knowledge", "glory", "power", "righteousness"}},
	{schema.CategoryDomestic, []string{"house", "bread", "food", "wine", "oil", "garment", "gold", "silver"}},
}

// SemanticCategory returns the first category with a keyword occurring as a
// substring of the lower-cased definition, or general.
func SemanticCategory(definition string) schema.SemanticCategory {
	def := strings.ToLower(definition)
	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(def, kw) {
				return entry.category
			}
		}
	}
	return schema.CategoryGeneral
}

var groupRes = []*regexp.Regexp{
	regexp.MustCompile(`\([^)]*\)`),
	regexp.MustCompile(`\{[^}]*\}`),
	regexp.MustCompile(`\[[^\]]*\]`),
}

// Gloss derives a short display gloss from a definition: bracketed groups are
// removed, the first ';' or ',' clause is kept, the first letter is
// capitalized and the result is capped at MaxGlossLength runes. A definition
// made only of whitespace counts as empty and yields "".
func Gloss(definition string) string {
	stripped := definition
	for _, re := range groupRes {
		stripped = re.ReplaceAllString(stripped, "")
	}

	gloss := stripped
	if i := strings.IndexAny(stripped, ";,"); i >= 0 {
		gloss = stripped[:i]
	}
	gloss = strings.TrimSpace(gloss)

	if gloss == "" {
		gloss = strings.TrimSpace(truncateRunes(definition, glossFallbackLength))
	}
	if gloss == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(gloss)
	gloss = string(unicode.ToUpper(r)) + gloss[size:]

	return strings.TrimSpace(truncateRunes(gloss, MaxGlossLength))
}

// Tier maps an occurrence count to a frequency tier from 1 (most common) to
// 5. It is defined for every integer.
func Tier(frequency int) int {
	for i, threshold := range tierThresholds {
		if frequency >= threshold {
			return i + 1
		}
	}
	return len(tierThresholds) + 1
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

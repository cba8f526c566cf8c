// Package builder turns lexicon entries into classified records and curated
// verse selections into the verse document.
package builder

import (
	"regexp"
	"strings"

	"hebvocab/internal/classify"
	"hebvocab/internal/frequency"
	"hebvocab/internal/normalizer"
	"hebvocab/internal/schema"
)

var hebrewID = regexp.MustCompile(`^H[0-9]+$`)

// Words in the combined definition that mark a noun as feminine.
var feminineMarkers = []string{"feminine", "woman", "wife", "daughter", "mother"}

// InNamespace reports whether id is a Hebrew lexicon identifier.
func InNamespace(id string) bool {
	return hebrewID.MatchString(id)
}

// CombinedDefinition joins the short and long definitions with ". ". Each
// part loses its trailing separator punctuation and the result is trimmed
// of it on both ends. When both parts are empty the derivation note is
// used instead.
func CombinedDefinition(shortDef, longDef, derivation string) string {
	var parts []string
	for _, p := range []string{shortDef, longDef} {
		if p = strings.TrimRight(p, ". "); p != "" {
			parts = append(parts, p)
		}
	}

	combined := strings.Trim(strings.Join(parts, ". "), ". ")
	if combined == "" {
		return derivation
	}
	return combined
}

// BuildRecord classifies a single entry. It returns false for entries
// outside the Hebrew namespace.
func BuildRecord(entry schema.RawEntry, table frequency.Table) (schema.Record, bool) {
	if !InNamespace(entry.ID) {
		return schema.Record{}, false
	}

	freq := table.Lookup(entry.ID)
	definition := CombinedDefinition(entry.StrongsDef, entry.KJVDef, entry.Derivation)

	glossSource := entry.StrongsDef
	if strings.TrimSpace(glossSource) == "" {
		glossSource = entry.KJVDef
	}

	record := schema.Record{
		ID:               entry.ID,
		Hebrew:           normalizer.NFC(entry.Lemma),
		Transliteration:  normalizer.CleanTransliteration(entry.Xlit),
		Gloss:            classify.Gloss(glossSource),
		Definition:       definition,
		PartOfSpeech:     classify.PartOfSpeech(entry.StrongsDef, entry.Derivation),
		Frequency:        freq,
		Tier:             classify.Tier(freq),
		Strongs:          entry.ID,
		SemanticCategory: classify.SemanticCategory(definition),
	}

	if record.PartOfSpeech == schema.Noun {
		record.Morphology.Gender = nounGender(definition)
	}

	return record, true
}

func nounGender(definition string) string {
	lower := strings.ToLower(definition)
	for _, marker := range feminineMarkers {
		if strings.Contains(lower, marker) {
			return schema.Feminine
		}
	}
	return schema.Masculine
}

// Package schema defines lexicon, record and verse data structures for hebvocab.
package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// PartOfSpeech is the closed set of grammatical tags assigned to a record.
type PartOfSpeech string

const (
	Verb        PartOfSpeech = "verb"
	Noun        PartOfSpeech = "noun"
	Adjective   PartOfSpeech = "adjective"
	Adverb      PartOfSpeech = "adverb"
	Preposition PartOfSpeech = "preposition"
	Conjunction PartOfSpeech = "conjunction"
	Pronoun     PartOfSpeech = "pronoun"
	Particle    PartOfSpeech = "particle"
)

// SemanticCategory is the coarse topical bucket assigned to a record.
type SemanticCategory string

const (
	CategoryTheological SemanticCategory = "theological"
	CategoryCreation    SemanticCategory = "creation"
	CategoryHuman       SemanticCategory = "human"
	CategoryBody        SemanticCategory = "body"
	CategoryAction      SemanticCategory = "action"
	CategoryEmotion     SemanticCategory = "emotion"
	CategoryLegal       SemanticCategory = "legal"
	CategoryWarfare     SemanticCategory = "warfare"
	CategoryRoyalty     SemanticCategory = "royalty"
	CategoryWorship     SemanticCategory = "worship"
	CategoryTime        SemanticCategory = "time"
	CategoryQuantity    SemanticCategory = "quantity"
	CategoryAbstract    SemanticCategory = "abstract"
	CategoryDomestic    SemanticCategory = "domestic"
	CategoryGeneral     SemanticCategory = "general"
)

// Gender values used in noun morphology.
const (
	Masculine = "masculine"
	Feminine  = "feminine"
)

// RawEntry is one lexicon entry as published by the upstream dictionary.
type RawEntry struct {
	ID         string
	Lemma      string
	Xlit       string
	StrongsDef string
	KJVDef     string
	Derivation string
}

// Morphology holds the morphological annotations inferred for a record.
type Morphology struct {
	Gender string `json:"gender,omitempty"`
}

// Record is a classified lexicon entry ready for serialization.
type Record struct {
	ID               string           `json:"id"`
	Hebrew           string           `json:"hebrew"`
	Transliteration  string           `json:"transliteration"`
	Gloss            string           `json:"gloss"`
	Definition       string           `json:"definition"`
	PartOfSpeech     PartOfSpeech     `json:"partOfSpeech"`
	Frequency        int              `json:"frequency"`
	Tier             int              `json:"tier"`
	Strongs          string           `json:"strongs"`
	SemanticCategory SemanticCategory `json:"semanticCategory"`
	Morphology       Morphology       `json:"morphology"`
}

// Vocabulary is the lexicon output document.
type Vocabulary struct {
	Words []Record `json:"words"`
}

// Book describes one Bible book present in the verse output.
type Book struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HebrewName string `json:"hebrewName"`
	Chapters   int    `json:"chapters"`
}

// Verse is one curated verse with its Hebrew text and study annotations.
type Verse struct {
	ID                   string   `json:"id"`
	Book                 string   `json:"book"`
	Chapter              int      `json:"chapter"`
	Verse                int      `json:"verse"`
	Reference            string   `json:"reference"`
	Hebrew               string   `json:"hebrew"`
	Transliteration      string   `json:"transliteration"`
	ReferenceTranslation string   `json:"referenceTranslation"`
	KeyTerms             []string `json:"keyTerms"`
	Difficulty           int      `json:"difficulty"`
	Notes                string   `json:"notes"`
}

// Verses is the verse output document.
type Verses struct {
	Books  []Book  `json:"books"`
	Verses []Verse `json:"verses"`
}

// SaveJSON writes v as indented JSON, creating parent directories as needed.
// Hebrew text and markup characters are written verbatim.
func SaveJSON(filePath string, v any) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// LoadJSON decodes the JSON file at filePath into v.
func LoadJSON(filePath string, v any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// StrongsNumber returns the numeric part of an identifier such as "H7225",
// or -1 when the identifier has no numeric part.
func StrongsNumber(id string) int {
	if len(id) < 2 {
		return -1
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 0 {
		return -1
	}
	return n
}

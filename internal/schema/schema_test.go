package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecordMarshalJSON(t *testing.T) {
	record := Record{
		ID:               "H1",
		Hebrew:           "אָב",
		Transliteration:  "'âb",
		Gloss:            "Father",
		Definition:       "father",
		PartOfSpeech:     Noun,
		Frequency:        1210,
		Tier:             1,
		Strongs:          "H1",
		SemanticCategory: CategoryHuman,
		Morphology:       Morphology{Gender: Masculine},
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	keys := []string{
		"id", "hebrew", "transliteration", "gloss", "definition", "partOfSpeech",
		"frequency", "tier", "strongs", "semanticCategory", "morphology",
	}
	for _, key := range keys {
		if _, ok := result[key]; !ok {
			t.Errorf("JSON should contain %q", key)
		}
	}

	morphology := result["morphology"].(map[string]interface{})
	if morphology["gender"] != "masculine" {
		t.Errorf("morphology.gender = %v, want masculine", morphology["gender"])
	}
}

func TestRecordMorphologyOmitsEmptyGender(t *testing.T) {
	data, err := json.Marshal(Record{ID: "H5307", PartOfSpeech: Verb})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"morphology":{}`) {
		t.Errorf("verb morphology should serialize as an empty object, got %s", data)
	}
}

func TestVersesMarshalJSON(t *testing.T) {
	doc := Verses{
		Books: []Book{{ID: "gen", Name: "Genesis", HebrewName: "בְּרֵאשִׁית", Chapters: 3}},
		Verses: []Verse{{
			ID:        "gen_1_1",
			Book:      "gen",
			Chapter:   1,
			Verse:     1,
			Reference: "Genesis 1:1",
			KeyTerms:  []string{"beginning"},
		}},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{`"hebrewName"`, `"chapters"`, `"referenceTranslation"`, `"keyTerms"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON should contain %s", key)
		}
	}
}

func TestSaveJSON(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "nested", "vocabulary.json")

	doc := Vocabulary{Words: []Record{{ID: "H430", Hebrew: "אֱלֹהִים", Gloss: "<God>"}}}
	if err := SaveJSON(filePath, doc); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	if !strings.Contains(string(data), "אֱלֹהִים") {
		t.Error("Hebrew text should be written without escaping")
	}
	if !strings.Contains(string(data), "<God>") {
		t.Error("markup characters should not be HTML-escaped")
	}

	var loaded Vocabulary
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to parse saved file: %v", err)
	}
	if len(loaded.Words) != 1 || loaded.Words[0].ID != "H430" {
		t.Errorf("loaded words = %+v", loaded.Words)
	}
}

func TestLoadJSON(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "vocabulary.json")
	if err := SaveJSON(filePath, Vocabulary{Words: []Record{{ID: "H1", Tier: 2}}}); err != nil {
		t.Fatal(err)
	}

	var doc Vocabulary
	if err := LoadJSON(filePath, &doc); err != nil {
		t.Fatalf("LoadJSON() error: %v", err)
	}
	if len(doc.Words) != 1 || doc.Words[0].Tier != 2 {
		t.Errorf("doc = %+v", doc)
	}

	if err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"), &doc); err == nil {
		t.Error("LoadJSON should fail for a missing file")
	}
}

func TestStrongsNumber(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"H1", 1},
		{"H7225", 7225},
		{"H", -1},
		{"", -1},
		{"H12a", -1},
		{"H-3", -1},
	}

	for _, tt := range tests {
		if got := StrongsNumber(tt.id); got != tt.want {
			t.Errorf("StrongsNumber(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

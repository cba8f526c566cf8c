package builder

import (
	"testing"
	"unicode/utf8"

	"hebvocab/internal/frequency"
	"hebvocab/internal/schema"
)

func TestBuildRecordFirstScenario(t *testing.T) {
	entry := schema.RawEntry{
		ID:         "H7225",
		Lemma:      "רֵאשִׁית",
		Xlit:       "rêʼshîyth",
		StrongsDef: "the first, in place, time, order or rank",
		Derivation: "(the first, in place, time, order or rank)",
	}
	table := frequency.Table{"H7225": 51}

	record, ok := BuildRecord(entry, table)
	if !ok {
		t.Fatal("BuildRecord should accept H7225")
	}

	if record.Tier != 4 {
		t.Errorf("Tier = %d, want 4", record.Tier)
	}
	if record.Frequency != 51 {
		t.Errorf("Frequency = %d, want 51", record.Frequency)
	}
	if record.Gloss != "The first" {
		t.Errorf("Gloss = %q, want %q", record.Gloss, "The first")
	}
	if record.PartOfSpeech != schema.Noun {
		t.Errorf("PartOfSpeech = %q, want noun", record.PartOfSpeech)
	}
	if record.Morphology.Gender != schema.Masculine {
		t.Errorf("Gender = %q, want masculine", record.Morphology.Gender)
	}
	if record.Transliteration != "rê'shîyth" {
		t.Errorf("Transliteration = %q", record.Transliteration)
	}
	if record.ID != entry.ID || record.Strongs != entry.ID {
		t.Errorf("ID/Strongs = %q/%q, want %q", record.ID, record.Strongs, entry.ID)
	}
}

func TestBuildRecordFallScenario(t *testing.T) {
	record, ok := BuildRecord(schema.RawEntry{ID: "H5307", StrongsDef: "to fall"}, frequency.Table{})
	if !ok {
		t.Fatal("BuildRecord should accept H5307")
	}

	if record.Frequency != frequency.DefaultCount {
		t.Errorf("Frequency = %d, want default %d", record.Frequency, frequency.DefaultCount)
	}
	if record.Tier != 5 {
		t.Errorf("Tier = %d, want 5", record.Tier)
	}
	if record.PartOfSpeech != schema.Verb {
		t.Errorf("PartOfSpeech = %q, want verb", record.PartOfSpeech)
	}
	if record.Morphology.Gender != "" {
		t.Errorf("verbs should have no gender, got %q", record.Morphology.Gender)
	}
}

func TestBuildRecordNamespace(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"H1", true},
		{"H8674", true},
		{"G26", false},
		{"H", false},
		{"H12a", false},
		{"h12", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := BuildRecord(schema.RawEntry{ID: tt.id, StrongsDef: "x"}, nil)
		if ok != tt.want {
			t.Errorf("BuildRecord(%q) ok = %v, want %v", tt.id, ok, tt.want)
		}
	}
}

func TestBuildRecordGender(t *testing.T) {
	tests := []struct {
		name  string
		short string
		long  string
		want  string
	}{
		{"feminine marker", "a daughter", "", schema.Feminine},
		{"marker in long definition", "a girl", "young woman", schema.Feminine},
		{"masculine default", "father", "", schema.Masculine},
		{"non-noun", "to fall", "mother", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, _ := BuildRecord(schema.RawEntry{ID: "H1", StrongsDef: tt.short, KJVDef: tt.long}, nil)
			if record.Morphology.Gender != tt.want {
				t.Errorf("Gender = %q, want %q", record.Morphology.Gender, tt.want)
			}
		})
	}
}

func TestBuildRecordGlossSource(t *testing.T) {
	record, _ := BuildRecord(schema.RawEntry{ID: "H2", KJVDef: "father, (forefather)"}, nil)
	if record.Gloss != "Father" {
		t.Errorf("Gloss = %q, want gloss from long definition", record.Gloss)
	}
	if utf8.RuneCountInString(record.Gloss) > 60 {
		t.Errorf("Gloss too long: %q", record.Gloss)
	}
}

func TestBuildRecordBlankShortDefinition(t *testing.T) {
	record, _ := BuildRecord(schema.RawEntry{ID: "H3", StrongsDef: "  ", KJVDef: "freshness, fruit"}, nil)
	if record.Gloss != "Freshness" {
		t.Errorf("Gloss = %q, want gloss from long definition", record.Gloss)
	}
}

func TestCombinedDefinition(t *testing.T) {
	tests := []struct {
		name       string
		short      string
		long       string
		derivation string
		want       string
	}{
		{"both", "father", "chief, principal.", "", "father. chief, principal"},
		{"short only", "to fall", "", "", "to fall"},
		{"long only", "", "beginning.", "", "beginning"},
		{"trailing separators", "first. ", "chief", "", "first. chief"},
		{"leading separator", ". odd", "", "", "odd"},
		{"derivation fallback", "", "", "a primitive root", "a primitive root"},
		{"only punctuation", ". ", ".", "from H1", "from H1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombinedDefinition(tt.short, tt.long, tt.derivation); got != tt.want {
				t.Errorf("CombinedDefinition(%q, %q, %q) = %q, want %q", tt.short, tt.long, tt.derivation, got, tt.want)
			}
		})
	}
}

func TestFinalizeOrdering(t *testing.T) {
	records := []schema.Record{
		{ID: "H10", Tier: 5},
		{ID: "H2", Tier: 5},
		{ID: "H430", Tier: 1},
		{ID: "H1", Tier: 1},
		{ID: "H7225", Tier: 4},
		{ID: "H100", Tier: 4},
	}

	sorted, histogram := Finalize(records)

	want := []string{"H1", "H430", "H100", "H7225", "H2", "H10"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].ID, id)
		}
	}

	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if a.Tier > b.Tier || (a.Tier == b.Tier && schema.StrongsNumber(a.ID) > schema.StrongsNumber(b.ID)) {
			t.Errorf("pair %s/%s out of order", a.ID, b.ID)
		}
	}

	if histogram[1] != 2 || histogram[4] != 2 || histogram[5] != 2 {
		t.Errorf("histogram = %v", histogram)
	}
	if _, ok := histogram[2]; ok {
		t.Error("histogram should only contain tiers present in the output")
	}

	if records[0].ID != "H10" {
		t.Error("Finalize should not reorder its input")
	}
}

func TestFinalizeEmpty(t *testing.T) {
	sorted, histogram := Finalize(nil)
	if len(sorted) != 0 || len(histogram) != 0 {
		t.Errorf("Finalize(nil) = %v, %v", sorted, histogram)
	}
}

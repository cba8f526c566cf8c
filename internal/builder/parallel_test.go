package builder

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"hebvocab/internal/frequency"
	"hebvocab/internal/schema"
)

func sampleEntries(n int) map[string]schema.RawEntry {
	defs := []string{"to fall", "father", "a daughter", "holy", "upon", "the first, in place"}
	entries := make(map[string]schema.RawEntry, n+2)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("H%d", i)
		entries[id] = schema.RawEntry{ID: id, StrongsDef: defs[i%len(defs)]}
	}
	entries["G1"] = schema.RawEntry{ID: "G1", StrongsDef: "alpha"}
	entries["A1"] = schema.RawEntry{ID: "A1", StrongsDef: "aramaic"}
	return entries
}

func TestBuildVocabulary(t *testing.T) {
	entries := sampleEntries(30)
	table := frequency.Table{"H3": 600, "H7": 250, "H12": 120, "H20": 60}

	records, stats, err := BuildVocabulary(context.Background(), entries, table, ParallelBuildConfig{})
	if err != nil {
		t.Fatalf("BuildVocabulary() error: %v", err)
	}

	if stats.TotalEntries != 32 {
		t.Errorf("TotalEntries = %d, want 32", stats.TotalEntries)
	}
	if stats.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", stats.Dropped)
	}
	if stats.TotalRecords != 30 || len(records) != 30 {
		t.Errorf("TotalRecords = %d, len = %d, want 30", stats.TotalRecords, len(records))
	}

	wantHead := []string{"H3", "H7", "H12", "H20", "H1", "H2"}
	for i, id := range wantHead {
		if records[i].ID != id {
			t.Errorf("records[%d] = %s, want %s", i, records[i].ID, id)
		}
	}

	if stats.ByTier[5] != 26 {
		t.Errorf("ByTier[5] = %d, want 26", stats.ByTier[5])
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}

	total := 0
	for _, n := range stats.ByPartOfSpeech {
		total += n
	}
	if total != len(records) {
		t.Errorf("part of speech counts sum to %d, want %d", total, len(records))
	}
}

func TestBuildVocabularyParallelMatchesSequential(t *testing.T) {
	entries := sampleEntries(500)
	table := frequency.Table{"H10": 1000, "H250": 75}

	sequential, _, err := BuildVocabulary(context.Background(), entries, table, ParallelBuildConfig{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{2, 4, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			parallel, stats, err := BuildVocabulary(context.Background(), entries, table, ParallelBuildConfig{Workers: workers})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(parallel, sequential) {
				t.Error("parallel output differs from sequential output")
			}
			if stats.Dropped != 2 {
				t.Errorf("Dropped = %d, want 2", stats.Dropped)
			}
		})
	}
}

func TestBuildVocabularyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{0, 4} {
		_, _, err := BuildVocabulary(ctx, sampleEntries(100), nil, ParallelBuildConfig{Workers: workers})
		if err != context.Canceled {
			t.Errorf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
	}
}

func BenchmarkBuildRecord(b *testing.B) {
	entry := schema.RawEntry{
		ID:         "H7225",
		StrongsDef: "the first, in place, time, order or rank (specifically, a firstfruit)",
		KJVDef:     "beginning, chief(-est), first(-fruits, part, time), principal thing.",
		Derivation: "from the same as H7218",
	}
	table := frequency.Table{"H7225": 51}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildRecord(entry, table)
	}
}

func BenchmarkBuildVocabulary(b *testing.B) {
	entries := sampleEntries(8674)
	table, _ := frequency.Build()

	for _, workers := range []int{0, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, _, err := BuildVocabulary(context.Background(), entries, table, ParallelBuildConfig{Workers: workers}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

package builder

import (
	"sort"

	"hebvocab/internal/schema"
)

// Finalize orders records by tier, then numeric identifier, then identifier
// text, and counts records per tier. The input slice is not modified.
func Finalize(records []schema.Record) ([]schema.Record, map[int]int) {
	sorted := make([]schema.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		na, nb := schema.StrongsNumber(a.ID), schema.StrongsNumber(b.ID)
		if na != nb {
			return na < nb
		}
		return a.ID < b.ID
	})

	histogram := make(map[int]int)
	for _, r := range sorted {
		histogram[r.Tier]++
	}

	return sorted, histogram
}

package similarity

import (
	"sort"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"hebvocab/internal/normalizer"
	"hebvocab/internal/schema"
)

// Fields a result can match on.
const (
	MatchTransliteration = "transliteration"
	MatchHebrew          = "hebrew"
	MatchGloss           = "gloss"
)

// Result is a record found by a lookup.
type Result struct {
	Record   schema.Record `json:"record"`
	Distance int           `json:"distance"`
	Field    string        `json:"field"`
}

// Index answers fuzzy queries over a vocabulary. Latin queries are matched
// against folded transliterations, Hebrew queries against unpointed
// headwords.
type Index struct {
	records map[string]schema.Record
	latin   *BKTree
	hebrew  *BKTree
	glosses []string
	glossID []string
}

// NewIndex builds an index over records.
func NewIndex(records []schema.Record) *Index {
	ix := &Index{
		records: make(map[string]schema.Record, len(records)),
		latin:   NewBKTree(),
		hebrew:  NewBKTree(),
		glosses: make([]string, 0, len(records)),
		glossID: make([]string, 0, len(records)),
	}
	for _, r := range records {
		if _, dup := ix.records[r.ID]; dup {
			continue
		}
		ix.records[r.ID] = r
		ix.latin.Insert(normalizer.Fold(r.Transliteration), r.ID)
		ix.hebrew.Insert(normalizer.StripPoints(r.Hebrew), r.ID)
		if r.Gloss != "" {
			ix.glosses = append(ix.glosses, r.Gloss)
			ix.glossID = append(ix.glossID, r.ID)
		}
	}
	return ix
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Lookup returns records whose transliteration (or, for a Hebrew query,
// unpointed headword) is within maxDistance edits of the query, ordered by
// distance, then tier, then Strong's number.
func (ix *Index) Lookup(query string, maxDistance int) []Result {
	tree, key, field := ix.latin, normalizer.Fold(query), MatchTransliteration
	if isHebrew(query) {
		tree, key, field = ix.hebrew, normalizer.StripPoints(query), MatchHebrew
	}

	var results []Result
	for _, m := range tree.Search(key, maxDistance) {
		for _, id := range m.IDs {
			results = append(results, Result{Record: ix.records[id], Distance: m.Distance, Field: field})
		}
	}
	sortResults(results)
	return results
}

// SearchGloss returns records whose gloss contains the query's letters in
// order, case-insensitively and ignoring diacritics.
func (ix *Index) SearchGloss(query string) []Result {
	if query == "" {
		return nil
	}
	var results []Result
	for _, rank := range fuzzy.RankFindNormalizedFold(query, ix.glosses) {
		results = append(results, Result{
			Record:   ix.records[ix.glossID[rank.OriginalIndex]],
			Distance: rank.Distance,
			Field:    MatchGloss,
		})
	}
	sortResults(results)
	return results
}

func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Record.Tier != b.Record.Tier {
			return a.Record.Tier < b.Record.Tier
		}
		na, nb := schema.StrongsNumber(a.Record.ID), schema.StrongsNumber(b.Record.ID)
		if na != nb {
			return na < nb
		}
		return a.Record.ID < b.Record.ID
	})
}

func isHebrew(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hebrew, r) {
			return true
		}
	}
	return false
}

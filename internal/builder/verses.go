package builder

import (
	"context"
	"fmt"
	"sort"

	"hebvocab/internal/catalog"
	"hebvocab/internal/schema"
)

// VerseSource supplies the Hebrew text of a verse, or "" when it is
// unavailable. book is the canonical book number.
type VerseSource interface {
	Verse(ctx context.Context, book, chapter, verse int) string
}

// Transliterator renders Hebrew text as a Latin pronunciation guide.
type Transliterator interface {
	Transliterate(text string) string
}

// VerseProgress is called after each curated verse is processed.
type VerseProgress func(done, total int, ref catalog.VerseRef, found bool)

// VerseStats holds statistics from a verse build.
type VerseStats struct {
	Requested    int
	Emitted      int
	Skipped      []string // references of verses with no text
	ByDifficulty map[int]int
	ByBook       map[string]int
}

// BookCount is one row of the book distribution.
type BookCount struct {
	Book  catalog.Book
	Count int
}

// VerseBuilder assembles the verse document from the curated catalog.
type VerseBuilder struct {
	catalog  *catalog.Catalog
	source   VerseSource
	translit Transliterator // nil leaves transliteration empty
}

// NewVerseBuilder creates a VerseBuilder. tr may be nil.
func NewVerseBuilder(c *catalog.Catalog, source VerseSource, tr Transliterator) *VerseBuilder {
	return &VerseBuilder{catalog: c, source: source, translit: tr}
}

// Reference formats a human-readable verse reference.
func Reference(bookName string, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", bookName, chapter, verse)
}

// VerseID formats the stable identifier of a verse.
func VerseID(book string, chapter, verse int) string {
	return fmt.Sprintf("%s_%d_%d", book, chapter, verse)
}

// Build fetches every curated verse in catalog order. Verses without text
// are skipped. Only books with at least one emitted verse are listed, in
// canonical order, with their highest emitted chapter.
func (b *VerseBuilder) Build(ctx context.Context, progress VerseProgress) (schema.Verses, *VerseStats, error) {
	stats := &VerseStats{
		Requested:    len(b.catalog.Verses),
		ByDifficulty: make(map[int]int),
		ByBook:       make(map[string]int),
	}
	doc := schema.Verses{Books: []schema.Book{}, Verses: []schema.Verse{}}
	maxChapter := make(map[string]int)

	for i, ref := range b.catalog.Verses {
		if err := ctx.Err(); err != nil {
			return schema.Verses{}, nil, err
		}

		book, ok := b.catalog.Book(ref.Book)
		if !ok {
			return schema.Verses{}, nil, fmt.Errorf("%w: %q", catalog.ErrUnknownBook, ref.Book)
		}

		reference := Reference(book.Name, ref.Chapter, ref.Verse)
		text := b.source.Verse(ctx, book.Number, ref.Chapter, ref.Verse)
		if progress != nil {
			progress(i+1, stats.Requested, ref, text != "")
		}
		if text == "" {
			stats.Skipped = append(stats.Skipped, reference)
			continue
		}

		verse := schema.Verse{
			ID:         VerseID(ref.Book, ref.Chapter, ref.Verse),
			Book:       ref.Book,
			Chapter:    ref.Chapter,
			Verse:      ref.Verse,
			Reference:  reference,
			Hebrew:     text,
			KeyTerms:   ref.KeyTerms,
			Difficulty: ref.Difficulty,
			Notes:      ref.Notes,
		}
		if verse.KeyTerms == nil {
			verse.KeyTerms = []string{}
		}
		if b.translit != nil {
			verse.Transliteration = b.translit.Transliterate(text)
		}

		doc.Verses = append(doc.Verses, verse)
		stats.ByDifficulty[ref.Difficulty]++
		stats.ByBook[ref.Book]++
		if ref.Chapter > maxChapter[ref.Book] {
			maxChapter[ref.Book] = ref.Chapter
		}
	}

	for _, book := range b.catalog.Books {
		chapters, used := maxChapter[book.ID]
		if !used {
			continue
		}
		doc.Books = append(doc.Books, schema.Book{
			ID:         book.ID,
			Name:       book.Name,
			HebrewName: book.HebrewName,
			Chapters:   chapters,
		})
	}

	stats.Emitted = len(doc.Verses)
	return doc, stats, nil
}

// BookDistribution returns per-book verse counts ordered by count
// descending, then canonical book order.
func (s *VerseStats) BookDistribution(c *catalog.Catalog) []BookCount {
	var rows []BookCount
	for _, book := range c.Books {
		if n := s.ByBook[book.ID]; n > 0 {
			rows = append(rows, BookCount{Book: book, Count: n})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

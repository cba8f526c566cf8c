package catalog

import (
	"errors"
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(c.Books) != 14 {
		t.Errorf("len(Books) = %d, want 14", len(c.Books))
	}
	if len(c.Verses) != 110 {
		t.Errorf("len(Verses) = %d, want 110", len(c.Verses))
	}

	for i := 1; i < len(c.Books); i++ {
		if c.Books[i-1].Number >= c.Books[i].Number {
			t.Errorf("books not in canonical order at %d: %d >= %d", i, c.Books[i-1].Number, c.Books[i].Number)
		}
	}

	first := c.Verses[0]
	if first.Book != "gen" || first.Chapter != 1 || first.Verse != 1 {
		t.Errorf("first verse = %s %d:%d, want gen 1:1", first.Book, first.Chapter, first.Verse)
	}

	ps, ok := c.Book("ps")
	if !ok {
		t.Fatal("Book(ps) not found")
	}
	if ps.Name != "Psalms" || ps.Number != 19 {
		t.Errorf("Book(ps) = %+v", ps)
	}
}

func TestParseUnknownBook(t *testing.T) {
	books := `
[[book]]
id = "gen"
name = "Genesis"
hebrew_name = "בְּרֵאשִׁית"
number = 1
`
	verses := `verses = [{ book = "rev", chapter = 1, verse = 1, difficulty = 1 }]`

	_, err := Parse(books, verses)
	if !errors.Is(err, ErrUnknownBook) {
		t.Errorf("Parse() error = %v, want ErrUnknownBook", err)
	}
}

func TestParseValidation(t *testing.T) {
	books := `
[[book]]
id = "gen"
name = "Genesis"
hebrew_name = "בְּרֵאשִׁית"
number = 1
`
	tests := []struct {
		name   string
		verses string
	}{
		{"difficulty out of range", `verses = [{ book = "gen", chapter = 1, verse = 1, difficulty = 4 }]`},
		{"zero chapter", `verses = [{ book = "gen", chapter = 0, verse = 1, difficulty = 1 }]`},
		{"missing book", `verses = [{ chapter = 1, verse = 1, difficulty = 1 }]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(books, tt.verses); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestParseDuplicateBook(t *testing.T) {
	books := `
[[book]]
id = "gen"
name = "Genesis"
hebrew_name = "x"
number = 1

[[book]]
id = "gen"
name = "Genesis"
hebrew_name = "x"
number = 2
`
	if _, err := Parse(books, ""); err == nil {
		t.Error("Parse() should reject duplicate book ids")
	}
}

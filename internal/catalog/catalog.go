// Package catalog holds the curated book and verse tables that drive the
// verse pipeline.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed books.toml
var booksTOML string

//go:embed verses.toml
var versesTOML string

// ErrUnknownBook is returned when a curated verse names a book missing from
// the book table.
var ErrUnknownBook = errors.New("unknown book")

// Book is one entry of the book table.
type Book struct {
	ID         string `toml:"id" validate:"required"`
	Name       string `toml:"name" validate:"required"`
	HebrewName string `toml:"hebrew_name" validate:"required"`
	// Number is the canonical book index, also used by the verse API.
	Number int `toml:"number" validate:"min=1"`
}

// VerseRef is one curated verse selection with its study annotations.
type VerseRef struct {
	Book       string   `toml:"book" validate:"required"`
	Chapter    int      `toml:"chapter" validate:"min=1"`
	Verse      int      `toml:"verse" validate:"min=1"`
	Difficulty int      `toml:"difficulty" validate:"oneof=1 2 3"`
	KeyTerms   []string `toml:"key_terms"`
	Notes      string   `toml:"notes"`
}

// Catalog is the validated pair of book and verse tables.
type Catalog struct {
	Books  []Book     `toml:"book" validate:"required,dive"`
	Verses []VerseRef `toml:"verses" validate:"dive"`

	byID map[string]Book
}

// Load decodes and validates the embedded tables.
func Load() (*Catalog, error) {
	return Parse(booksTOML, versesTOML)
}

// Parse decodes a book table and a verse table and checks that every verse
// refers to a known book. Books are returned in canonical order; verses keep
// their file order.
func Parse(books, verses string) (*Catalog, error) {
	c := &Catalog{}
	if _, err := toml.Decode(books, c); err != nil {
		return nil, fmt.Errorf("failed to decode book table: %w", err)
	}
	if _, err := toml.Decode(verses, c); err != nil {
		return nil, fmt.Errorf("failed to decode verse table: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	sort.SliceStable(c.Books, func(i, j int) bool {
		return c.Books[i].Number < c.Books[j].Number
	})

	c.byID = make(map[string]Book, len(c.Books))
	for _, b := range c.Books {
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate book id %q", b.ID)
		}
		c.byID[b.ID] = b
	}

	for _, v := range c.Verses {
		if _, ok := c.byID[v.Book]; !ok {
			return nil, fmt.Errorf("%w: %q in %d:%d", ErrUnknownBook, v.Book, v.Chapter, v.Verse)
		}
	}

	return c, nil
}

// Book returns the book with the given id.
func (c *Catalog) Book(id string) (Book, bool) {
	b, ok := c.byID[id]
	return b, ok
}

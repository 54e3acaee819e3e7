package library

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Field names a book attribute used by Search and Sort.
type Field string

const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
	FieldGenre  Field = "genre"
	FieldPrice  Field = "price"
)

// ParseField normalizes a user supplied field name.
func ParseField(s string) Field {
	return Field(strings.ToLower(strings.TrimSpace(s)))
}

// fold returns the case-insensitive comparison key of s.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func textOf(b *Book, f Field) (string, bool) {
	switch f {
	case FieldTitle:
		return b.Title, true
	case FieldAuthor:
		return b.Author, true
	case FieldGenre:
		return b.Genre, true
	}
	return "", false
}

// Search returns the books whose field contains value, ignoring case.
// Only title, author and genre can be searched.
func (c *Catalog) Search(field Field, value string) ([]Book, error) {
	if _, ok := textOf(&Book{}, field); !ok {
		return nil, fmt.Errorf("search field %q (want title, author or genre): %w", field, ErrInvalidArgument)
	}
	needle := fold(value)
	return c.filter(func(b *Book) bool {
		text, _ := textOf(b, field)
		return strings.Contains(fold(text), needle)
	}), nil
}

// CombinedSearch ANDs the non-blank criteria: title and author match by
// substring, genre matches exactly, all ignoring case. With no criteria it
// returns the whole catalog.
func (c *Catalog) CombinedSearch(q Criteria) []Book {
	title, author, genre := fold(q.Title), fold(q.Author), fold(q.Genre)
	return c.filter(func(b *Book) bool {
		if title != "" && !strings.Contains(fold(b.Title), title) {
			return false
		}
		if author != "" && !strings.Contains(fold(b.Author), author) {
			return false
		}
		if genre != "" && fold(b.Genre) != genre {
			return false
		}
		return true
	})
}

// FilterByGenre returns the books of one genre, ignoring case.
func (c *Catalog) FilterByGenre(genre string) []Book {
	g := fold(genre)
	return c.filter(func(b *Book) bool { return fold(b.Genre) == g })
}

func (c *Catalog) filter(keep func(*Book) bool) []Book {
	out := []Book{}
	for _, b := range c.books {
		if keep(b) {
			out = append(out, b.clone())
		}
	}
	return out
}

// Sort returns a new slice ordered by title, author (case-insensitive) or
// price, ascending. Equal keys keep collection order. The catalog is not modified.
func (c *Catalog) Sort(key Field) ([]Book, error) {
	books := c.Books()
	switch key {
	case FieldTitle, FieldAuthor:
		type keyed struct {
			key  string
			book Book
		}
		ks := make([]keyed, len(books))
		for i := range books {
			text, _ := textOf(&books[i], key)
			ks[i] = keyed{key: fold(text), book: books[i]}
		}
		slices.SortStableFunc(ks, func(a, b keyed) int { return strings.Compare(a.key, b.key) })
		for i := range ks {
			books[i] = ks[i].book
		}
	case FieldPrice:
		sortByPrice(books)
	default:
		return nil, fmt.Errorf("sort key %q (want title, author or price): %w", key, ErrInvalidArgument)
	}
	return books, nil
}

func sortByPrice(books []Book) {
	slices.SortStableFunc(books, func(a, b Book) int { return cmp.Compare(a.Price, b.Price) })
}

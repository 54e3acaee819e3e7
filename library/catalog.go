package library

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	minYear   = 1000
	minRating = 1
	maxRating = 5
)

// Catalog is the in-memory book collection. It owns its books: every
// accessor returns copies and every mutation goes through a method.
// A Catalog is not safe for concurrent use.
type Catalog struct {
	books []*Book
	now   func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the time source used for history dates and the
// upper bound of the publication year.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// NewCatalog builds a catalog holding copies of books, in order.
func NewCatalog(books []Book, opts ...Option) *Catalog {
	c := &Catalog{now: time.Now}
	for _, o := range opts {
		o(c)
	}
	c.books = make([]*Book, 0, len(books))
	for _, b := range books {
		cp := b.clone()
		c.books = append(c.books, &cp)
	}
	return c
}

// Len reports how many books the catalog holds.
func (c *Catalog) Len() int { return len(c.books) }

// Books returns a copy of the collection in insertion order.
func (c *Catalog) Books() []Book {
	return snapshot(c.books)
}

func snapshot(books []*Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, b.clone())
	}
	return out
}

// NextID returns 1 + the highest live id, or 1 for an empty catalog.
// Ids freed by removal at the top are handed out again; gaps below are not filled.
func (c *Catalog) NextID() int64 {
	var highest int64
	for _, b := range c.books {
		if b.ID > highest {
			highest = b.ID
		}
	}
	return highest + 1
}

// ValidateBook checks candidate fields and reports every violation at once.
func (c *Catalog) ValidateBook(title, author string, year int, price float64, genre string) error {
	currentYear := c.now().Year()
	var violations []string

	if strings.TrimSpace(title) == "" {
		violations = append(violations, "title must not be empty")
	}
	if strings.TrimSpace(author) == "" {
		violations = append(violations, "author must not be empty")
	}
	if strings.TrimSpace(genre) == "" {
		violations = append(violations, "genre must not be empty")
	}
	if year < minYear || year > currentYear {
		violations = append(violations, fmt.Sprintf("year must be an integer between %d and %d", minYear, currentYear))
	}
	// NaN fails the comparison; +Inf cannot be stored.
	if !(price > 0) || math.IsInf(price, 1) {
		violations = append(violations, "price must be a strictly positive finite number")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// AddBook validates the fields, assigns the next id and appends the book.
func (c *Catalog) AddBook(title, author, genre string, year int, price float64) (Book, error) {
	if err := c.ValidateBook(title, author, year, price, genre); err != nil {
		return Book{}, err
	}
	b := &Book{
		ID:        c.NextID(),
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Genre:     strings.TrimSpace(genre),
		Year:      year,
		Price:     price,
		Available: true,
		Rating:    0,
		History:   []HistoryEntry{},
	}
	c.books = append(c.books, b)
	return b.clone(), nil
}

func (c *Catalog) find(id int64) (*Book, int) {
	for i, b := range c.books {
		if b.ID == id {
			return b, i
		}
	}
	return nil, -1
}

func (c *Catalog) mustFind(id int64) (*Book, error) {
	b, _ := c.find(id)
	if b == nil {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return b, nil
}

// Get returns a copy of the book with id.
func (c *Catalog) Get(id int64) (Book, error) {
	b, err := c.mustFind(id)
	if err != nil {
		return Book{}, err
	}
	return b.clone(), nil
}

// Borrow moves an available book to the borrowed state and logs the event.
func (c *Catalog) Borrow(id int64) (Book, error) {
	b, err := c.mustFind(id)
	if err != nil {
		return Book{}, err
	}
	if !b.Available {
		return Book{}, fmt.Errorf("book %d is already borrowed: %w", id, ErrInvalidState)
	}
	b.Available = false
	b.History = append(b.History, c.entry(ActionBorrow))
	return b.clone(), nil
}

// Return moves a borrowed book back to the available state and logs the event.
func (c *Catalog) Return(id int64) (Book, error) {
	b, err := c.mustFind(id)
	if err != nil {
		return Book{}, err
	}
	if b.Available {
		return Book{}, fmt.Errorf("book %d is not borrowed: %w", id, ErrInvalidState)
	}
	b.Available = true
	b.History = append(b.History, c.entry(ActionReturn))
	return b.clone(), nil
}

func (c *Catalog) entry(a Action) HistoryEntry {
	return HistoryEntry{Action: a, Date: c.now().Format(DateLayout)}
}

// Rate sets the rating of a book. Valid ratings are 1 to 5; 0 only means unrated.
func (c *Catalog) Rate(id int64, rating int) (Book, error) {
	if rating < minRating || rating > maxRating {
		return Book{}, &ValidationError{Violations: []string{
			fmt.Sprintf("rating must be between %d and %d", minRating, maxRating),
		}}
	}
	b, err := c.mustFind(id)
	if err != nil {
		return Book{}, err
	}
	b.Rating = rating
	return b.clone(), nil
}

// History returns the lending log of a book, oldest first.
func (c *Catalog) History(id int64) ([]HistoryEntry, error) {
	b, err := c.mustFind(id)
	if err != nil {
		return nil, err
	}
	return append([]HistoryEntry{}, b.History...), nil
}

// RemoveBook deletes the first book with id. It reports whether anything was
// removed; a missing id is not an error.
func (c *Catalog) RemoveBook(id int64) bool {
	_, i := c.find(id)
	if i < 0 {
		return false
	}
	c.books = append(c.books[:i], c.books[i+1:]...)
	return true
}

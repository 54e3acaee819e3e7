package library

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// LibraryManager is a thin façade over a Catalog and the Store it was loaded
// from, keeping CLI code simple. Mutations only touch memory; call Save to
// persist them.
type LibraryManager struct {
	catalog *Catalog
	store   Store
	log     zerolog.Logger
}

// NewLibraryManager loads the collection from store. A store that does not
// exist yet gives an empty catalog; a corrupt one is an error.
func NewLibraryManager(store Store, logger zerolog.Logger, opts ...Option) (*LibraryManager, error) {
	books, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", store.Path(), err)
	}
	logger.Info().Str("path", store.Path()).Int("count", len(books)).Msg("catalog loaded")
	return &LibraryManager{
		catalog: NewCatalog(books, opts...),
		store:   store,
		log:     logger,
	}, nil
}

// Close closes the underlying store.
func (lm *LibraryManager) Close() error { return lm.store.Close() }

// StorePath is where Save writes.
func (lm *LibraryManager) StorePath() string { return lm.store.Path() }

// ------------------ Persistence ------------------

// Save flushes the whole collection to the store.
func (lm *LibraryManager) Save() error {
	books := lm.catalog.Books()
	if err := lm.store.Save(books); err != nil {
		lm.log.Error().Err(err).Str("path", lm.store.Path()).Msg("save failed")
		return err
	}
	lm.log.Info().Str("path", lm.store.Path()).Int("count", len(books)).Msg("catalog saved")
	return nil
}

// Export writes the flat CSV view of the collection to path.
func (lm *LibraryManager) Export(path string) error {
	books := lm.catalog.Books()
	err := writeFileAtomic(path, func(w io.Writer) error { return ExportCSV(w, books) })
	if err != nil {
		lm.log.Error().Err(err).Str("path", path).Msg("export failed")
		return fmt.Errorf("export %s: %v: %w", path, err, ErrSerialization)
	}
	lm.log.Info().Str("path", path).Int("count", len(books)).Msg("catalog exported")
	return nil
}

// Seed adds the sample books when the catalog is empty and reports how many were added.
func (lm *LibraryManager) Seed(samples []SampleBook) (int, error) {
	if lm.catalog.Len() > 0 {
		return 0, nil
	}
	for _, s := range samples {
		if _, err := lm.AddBook(s.Title, s.Author, s.Genre, s.Year, s.Price); err != nil {
			return 0, fmt.Errorf("seed %q: %w", s.Title, err)
		}
	}
	return len(samples), nil
}

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title, author, genre string, year int, price float64) (Book, error) {
	b, err := lm.catalog.AddBook(title, author, genre, year, price)
	if err != nil {
		lm.log.Debug().Err(err).Msg("add rejected")
		return Book{}, err
	}
	lm.log.Debug().Int64("id", b.ID).Str("title", b.Title).Msg("book added")
	return b, nil
}

func (lm *LibraryManager) GetBook(id int64) (Book, error) { return lm.catalog.Get(id) }
func (lm *LibraryManager) GetAllBooks() []Book            { return lm.catalog.Books() }

// RemoveBook reports whether a book was removed.
func (lm *LibraryManager) RemoveBook(id int64) bool {
	ok := lm.catalog.RemoveBook(id)
	lm.log.Debug().Int64("id", id).Bool("removed", ok).Msg("remove")
	return ok
}

func (lm *LibraryManager) RateBook(id int64, rating int) (Book, error) {
	b, err := lm.catalog.Rate(id, rating)
	if err == nil {
		lm.log.Debug().Int64("id", id).Int("rating", rating).Msg("book rated")
	}
	return b, err
}

// ------------------ Circulation ------------------

func (lm *LibraryManager) BorrowBook(id int64) (Book, error) {
	b, err := lm.catalog.Borrow(id)
	if err == nil {
		lm.log.Debug().Int64("id", id).Msg("book borrowed")
	}
	return b, err
}

func (lm *LibraryManager) ReturnBook(id int64) (Book, error) {
	b, err := lm.catalog.Return(id)
	if err == nil {
		lm.log.Debug().Int64("id", id).Msg("book returned")
	}
	return b, err
}

func (lm *LibraryManager) History(id int64) ([]HistoryEntry, error) {
	return lm.catalog.History(id)
}

// ------------------ Queries ------------------

func (lm *LibraryManager) SearchBooks(field Field, value string) ([]Book, error) {
	return lm.catalog.Search(field, value)
}

func (lm *LibraryManager) CombinedSearch(q Criteria) []Book { return lm.catalog.CombinedSearch(q) }
func (lm *LibraryManager) FilterByGenre(genre string) []Book { return lm.catalog.FilterByGenre(genre) }

func (lm *LibraryManager) SortBooks(key Field) ([]Book, error) { return lm.catalog.Sort(key) }

func (lm *LibraryManager) Report() Report { return lm.catalog.Report() }

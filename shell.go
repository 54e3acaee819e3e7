package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"book-catalog/library"
)

// errCancelled is returned by the prompt helpers when the user types "q".
// It is an input signal, not a catalog failure.
var errCancelled = errors.New("cancelled by user")

type shell struct {
	mgr        *library.LibraryManager
	in         *bufio.Scanner
	out        io.Writer
	exportPath string
	now        func() time.Time
}

type menuEntry struct {
	key    string
	label  string
	handle func(*shell) error
}

var menu = []menuEntry{
	{"1", "Add a book", (*shell).handleAddBook},
	{"2", "List all books", (*shell).handleListBooks},
	{"3", "Search a book", (*shell).handleSearchBooks},
	{"4", "Borrow a book", (*shell).handleBorrow},
	{"5", "Return a book", (*shell).handleReturn},
	{"6", "Filter by genre", (*shell).handleFilterGenre},
	{"7", "Show statistics", (*shell).handleReport},
	{"8", "Delete a book", (*shell).handleRemove},
	{"9", "Sort books", (*shell).handleSort},
	{"10", "Rate a book", (*shell).handleRate},
	{"11", "Show a book's history", (*shell).handleHistory},
	{"12", "Advanced search", (*shell).handleCombinedSearch},
	{"13", "Export CSV", (*shell).handleExport},
}

func (s *shell) printMenu() {
	fmt.Fprintln(s.out, "\n=== BOOK CATALOG ===")
	for _, e := range menu {
		fmt.Fprintf(s.out, "%s. %s\n", e.key, e.label)
	}
	fmt.Fprintln(s.out, "0. Quit")
}

// run is the menu loop. Catalog errors are reported and the loop resumes;
// it only ends on quit or end of input.
func (s *shell) run() error {
	for {
		s.printMenu()
		choice, err := s.readLine(fmt.Sprintf("Choose an option (0-%d): ", len(menu)))
		if err != nil {
			// End of input: save like a quit, but there is nobody left to ask.
			return s.mgr.Save()
		}

		if choice == "0" {
			if s.quit() {
				return nil
			}
			continue
		}

		entry, ok := lookupMenu(choice)
		if !ok {
			fmt.Fprintf(s.out, "Invalid option, choose a number between 0 and %d.\n", len(menu))
			continue
		}
		switch err := entry.handle(s); {
		case err == nil:
		case errors.Is(err, errCancelled):
			fmt.Fprintln(s.out, "Cancelled.")
		case errors.Is(err, io.EOF):
			return s.mgr.Save()
		default:
			fmt.Fprintln(s.out, describeError(err))
		}
	}
}

func lookupMenu(key string) (menuEntry, bool) {
	for _, e := range menu {
		if e.key == key {
			return e, true
		}
	}
	return menuEntry{}, false
}

// quit saves the catalog. When saving fails the user decides whether to
// leave anyway; it reports whether the loop should end.
func (s *shell) quit() bool {
	fmt.Fprintln(s.out, "Saving...")
	err := s.mgr.Save()
	if err == nil {
		fmt.Fprintln(s.out, "Goodbye!")
		return true
	}
	fmt.Fprintln(s.out, describeError(err))
	answer, rerr := s.readLine("Quit without saving? Changes will be lost. (y/N): ")
	if rerr != nil || isYes(answer) {
		fmt.Fprintln(s.out, "Goodbye (changes not saved).")
		return true
	}
	return false
}

// persist saves after a successful mutation; a failure is reported but the
// change stays in memory and is retried on the next save.
func (s *shell) persist() {
	if err := s.mgr.Save(); err != nil {
		fmt.Fprintf(s.out, "Warning: changes kept in memory only. %s\n", describeError(err))
	}
}

// ------------------ Input helpers ------------------

func (s *shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func isCancel(v string) bool { return strings.EqualFold(v, "q") }

func isYes(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "o" || v == "oui"
}

func (s *shell) readText(prompt string) (string, error) {
	for {
		v, err := s.readLine(prompt)
		if err != nil {
			return "", err
		}
		if isCancel(v) {
			return "", errCancelled
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintln(s.out, "This field cannot be empty (or type 'q' to cancel).")
	}
}

func (s *shell) readInt(prompt string) (int, error) {
	for {
		v, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if isCancel(v) {
			return 0, errCancelled
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(s.out, "Invalid input, enter a whole number (or 'q' to cancel).")
	}
}

func (s *shell) readFloat(prompt string) (float64, error) {
	for {
		v, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if isCancel(v) {
			return 0, errCancelled
		}
		f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err == nil {
			return f, nil
		}
		fmt.Fprintln(s.out, "Invalid input, enter a number such as 19.99 (or 'q' to cancel).")
	}
}

func (s *shell) readID(prompt string) (int64, error) {
	n, err := s.readInt(prompt)
	return int64(n), err
}

// ------------------ Handlers ------------------

func (s *shell) handleAddBook() error {
	fmt.Fprintln(s.out, "\nAdd a book (type 'q' at any prompt to cancel)")
	title, err := s.readText("Title: ")
	if err != nil {
		return err
	}
	author, err := s.readText("Author: ")
	if err != nil {
		return err
	}
	genre, err := s.readText("Genre: ")
	if err != nil {
		return err
	}
	year, err := s.readInt("Publication year (e.g. 1997): ")
	if err != nil {
		return err
	}
	price, err := s.readFloat("Price (e.g. 19.99): ")
	if err != nil {
		return err
	}

	b, err := s.mgr.AddBook(title, author, genre, year, price)
	if err != nil {
		return err
	}
	s.persist()
	fmt.Fprintf(s.out, "Book added (ID %d).\n", b.ID)
	return nil
}

func (s *shell) handleListBooks() error {
	renderBooks(s.out, s.mgr.GetAllBooks())
	return nil
}

func (s *shell) handleSearchBooks() error {
	field, err := s.readText("Field (title / author / genre): ")
	if err != nil {
		return err
	}
	value, err := s.readLine("Value: ")
	if err != nil {
		return err
	}
	books, err := s.mgr.SearchBooks(library.ParseField(field), value)
	if err != nil {
		return err
	}
	renderResults(s.out, books)
	return nil
}

func (s *shell) handleBorrow() error {
	id, err := s.readID("ID of the book to borrow: ")
	if err != nil {
		return err
	}
	b, err := s.mgr.BorrowBook(id)
	if err != nil {
		return err
	}
	s.persist()
	fmt.Fprintf(s.out, "Book '%s' borrowed.\n", b.Title)
	return nil
}

func (s *shell) handleReturn() error {
	id, err := s.readID("ID of the book to return: ")
	if err != nil {
		return err
	}
	b, err := s.mgr.ReturnBook(id)
	if err != nil {
		return err
	}
	s.persist()
	fmt.Fprintf(s.out, "Book '%s' returned.\n", b.Title)
	return nil
}

func (s *shell) handleFilterGenre() error {
	genre, err := s.readText("Genre: ")
	if err != nil {
		return err
	}
	renderResults(s.out, s.mgr.FilterByGenre(genre))
	return nil
}

func (s *shell) handleReport() error {
	renderReport(s.out, s.mgr.Report())
	return nil
}

func (s *shell) handleRemove() error {
	id, err := s.readID("ID of the book to delete: ")
	if err != nil {
		return err
	}
	answer, err := s.readLine("Really delete this book? (y/N): ")
	if err != nil {
		return err
	}
	if !isYes(answer) {
		return errCancelled
	}
	if !s.mgr.RemoveBook(id) {
		fmt.Fprintf(s.out, "No book with ID %d.\n", id)
		return nil
	}
	s.persist()
	fmt.Fprintln(s.out, "Book deleted.")
	return nil
}

func (s *shell) handleSort() error {
	key, err := s.readText("Sort by (title / author / price): ")
	if err != nil {
		return err
	}
	books, err := s.mgr.SortBooks(library.ParseField(key))
	if err != nil {
		return err
	}
	renderBooks(s.out, books)
	return nil
}

func (s *shell) handleRate() error {
	id, err := s.readID("ID of the book to rate: ")
	if err != nil {
		return err
	}
	rating, err := s.readInt("Rating (1-5): ")
	if err != nil {
		return err
	}
	b, err := s.mgr.RateBook(id, rating)
	if err != nil {
		return err
	}
	s.persist()
	fmt.Fprintf(s.out, "Book '%s' rated %s\n", b.Title, stars(b.Rating))
	return nil
}

func (s *shell) handleHistory() error {
	id, err := s.readID("Book ID: ")
	if err != nil {
		return err
	}
	history, err := s.mgr.History(id)
	if err != nil {
		return err
	}
	b, err := s.mgr.GetBook(id)
	if err != nil {
		return err
	}
	renderHistory(s.out, b.Title, history, s.now())
	return nil
}

func (s *shell) handleCombinedSearch() error {
	fmt.Fprintln(s.out, "\nAdvanced search (leave a field blank to ignore it)")
	var q library.Criteria
	var err error
	if q.Title, err = s.readLine("Title: "); err != nil {
		return err
	}
	if q.Author, err = s.readLine("Author: "); err != nil {
		return err
	}
	if q.Genre, err = s.readLine("Genre: "); err != nil {
		return err
	}
	renderResults(s.out, s.mgr.CombinedSearch(q))
	return nil
}

func (s *shell) handleExport() error {
	if err := s.mgr.Export(s.exportPath); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported to '%s'.\n", s.exportPath)
	return nil
}

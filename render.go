package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"book-catalog/library"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const defaultWidth = 120

// termWidth returns the terminal width behind w, or defaultWidth when w is
// not a terminal.
func termWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + " €"
}

func renderBooks(w io.Writer, books []library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "The catalog is empty.")
		return
	}

	// Title and author share what is left after the fixed columns.
	free := termWidth(w) - 60
	titleW := max(20, free*3/5)
	authorW := max(15, free-titleW)

	fmt.Fprintf(w, "%-5s %-*s %-*s %-14s %-5s %10s %-10s %s\n",
		"ID", titleW, "Title", authorW, "Author", "Genre", "Year", "Price", "Status", "Rating")
	fmt.Fprintln(w, strings.Repeat("-", titleW+authorW+60))

	for _, b := range books {
		status := "Available"
		if !b.Available {
			status = "Borrowed"
		}
		fmt.Fprintf(w, "%-5d %-*s %-*s %-14s %-5d %10.2f %-10s %s\n",
			b.ID,
			titleW, truncateString(b.Title, titleW),
			authorW, truncateString(b.Author, authorW),
			truncateString(b.Genre, 14),
			b.Year,
			b.Price,
			status,
			stars(b.Rating))
	}
}

func renderResults(w io.Writer, books []library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	fmt.Fprintf(w, "Found %d book(s):\n", len(books))
	renderBooks(w, books)
}

func renderReport(w io.Writer, r library.Report) {
	fmt.Fprintln(w, "Catalog report")
	fmt.Fprintf(w, "- Total books:   %s\n", humanize.Comma(int64(r.Total)))
	fmt.Fprintf(w, "- Available:     %s\n", humanize.Comma(int64(r.AvailableCount)))
	fmt.Fprintf(w, "- Borrowed:      %s\n", humanize.Comma(int64(r.BorrowedCount)))
	fmt.Fprintf(w, "- Total value:   %s\n", money(r.TotalValue))
	if r.MostCommonGenre != "" {
		fmt.Fprintf(w, "- Top genre:     %s\n", r.MostCommonGenre)
	}
	if len(r.MostExpensive) > 0 {
		fmt.Fprintln(w, "\nMost expensive:")
		for _, b := range r.MostExpensive {
			fmt.Fprintf(w, "  %s (%s) - ID %d\n", b.Title, money(b.Price), b.ID)
		}
	}
	if len(r.Cheapest) > 0 {
		fmt.Fprintln(w, "\nCheapest:")
		for _, b := range r.Cheapest {
			fmt.Fprintf(w, "  %s (%s) - ID %d\n", b.Title, money(b.Price), b.ID)
		}
	}
}

func renderHistory(w io.Writer, title string, history []library.HistoryEntry, now time.Time) {
	if len(history) == 0 {
		fmt.Fprintf(w, "No lending recorded for '%s'.\n", title)
		return
	}
	fmt.Fprintf(w, "History for '%s':\n", title)
	for _, h := range history {
		action := "Borrowed"
		if h.Action == library.ActionReturn {
			action = "Returned"
		}
		line := fmt.Sprintf("  %s : %s", h.Date, action)
		if t, err := h.Time(); err == nil {
			line += " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// describeError formats a catalog error for the user; validation errors get
// one line per violation.
func describeError(err error) string {
	var verr *library.ValidationError
	if errors.As(err, &verr) {
		return "Invalid input:\n  - " + strings.Join(verr.Violations, "\n  - ")
	}
	if kind := library.KindOf(err); kind != library.KindUnknown {
		return fmt.Sprintf("Error (%s): %v", kind, err)
	}
	return fmt.Sprintf("Error: %v", err)
}

func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}

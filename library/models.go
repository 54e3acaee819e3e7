package library

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of history dates: local time, minute precision.
const DateLayout = "2006-01-02 15:04"

// Action is the kind of lending event recorded in a book's history.
type Action string

const (
	ActionBorrow Action = "borrow"
	ActionReturn Action = "return"
)

// UnmarshalText accepts the current action names and the legacy ones
// ("emprunt", "retour") found in older data files.
func (a *Action) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "borrow", "emprunt":
		*a = ActionBorrow
	case "return", "retour":
		*a = ActionReturn
	default:
		return fmt.Errorf("unknown history action %q", string(b))
	}
	return nil
}

// HistoryEntry is one borrow or return event.
type HistoryEntry struct {
	Action Action `json:"action"`
	Date   string `json:"date"`
}

// Time parses Date in the local time zone.
func (h HistoryEntry) Time() (time.Time, error) {
	return time.ParseInLocation(DateLayout, h.Date, time.Local)
}

// Book is a catalog record. Every field is always present; defaults are
// filled in once by Catalog.AddBook.
type Book struct {
	ID        int64          `json:"id"`
	Title     string         `json:"titre"`
	Author    string         `json:"auteur"`
	Genre     string         `json:"genre"`
	Year      int            `json:"annee_publication"`
	Price     float64        `json:"prix"`
	Available bool           `json:"disponible"`
	Rating    int            `json:"note"`
	History   []HistoryEntry `json:"historique"`
}

func (b Book) clone() Book {
	b.History = append([]HistoryEntry{}, b.History...)
	return b
}

// Report is the aggregate view produced by Catalog.Report.
type Report struct {
	Total           int     `json:"total"`
	AvailableCount  int     `json:"available"`
	BorrowedCount   int     `json:"borrowed"`
	TotalValue      float64 `json:"total_value"`
	MostCommonGenre string  `json:"most_common_genre,omitempty"` // empty when the catalog is empty
	Cheapest        []Book  `json:"cheapest"`
	MostExpensive   []Book  `json:"most_expensive"`
}

// Criteria drives Catalog.CombinedSearch. Blank fields are ignored.
type Criteria struct {
	Title  string
	Author string
	Genre  string
}

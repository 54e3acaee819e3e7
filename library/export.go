package library

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the fixed column set of the flat export.
var CSVHeader = []string{"id", "titre", "auteur", "genre", "annee_publication", "prix", "disponible", "note"}

// ExportCSV writes one row per book under CSVHeader. History is not exported.
func ExportCSV(w io.Writer, books []Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, b := range books {
		row := []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			b.Author,
			b.Genre,
			strconv.Itoa(b.Year),
			strconv.FormatFloat(b.Price, 'f', -1, 64),
			strconv.FormatBool(b.Available),
			strconv.Itoa(b.Rating),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("book %d: %w", b.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"book-catalog/library"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// importRow is one parsed line of the input file.
type importRow struct {
	line   int
	title  string
	author string
	genre  string
	year   int
	price  float64
}

func main() {
	var storePath string

	cmd := &cobra.Command{
		Use:          "import_books FILE.csv",
		Short:        "Bulk-import books (title,author,genre,year,price) into a catalog store",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			return run(args[0], storePath, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "bibliotheque.json", "catalog file to import into")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(csvPath, storePath string, out io.Writer, logger zerolog.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", csvPath, err)
	}

	manager, err := library.NewLibraryManager(library.OpenStore(storePath), logger)
	if err != nil {
		return err
	}
	defer manager.Close()

	fmt.Fprintf(out, "Importing %d row(s) from %s...\n", len(rows), csvPath)
	successCount, errorCount := 0, 0
	for _, r := range rows {
		fmt.Fprintf(out, "Importing: %s by %s... ", r.title, r.author)
		b, err := manager.AddBook(r.title, r.author, r.genre, r.year, r.price)
		if err != nil {
			fmt.Fprintf(out, "ERROR (line %d) - %v\n", r.line, err)
			errorCount++
			continue
		}
		fmt.Fprintf(out, "SUCCESS (ID: %d)\n", b.ID)
		successCount++
	}

	if successCount > 0 {
		if err := manager.Save(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nImport complete!\n")
	fmt.Fprintf(out, "Successfully imported: %d books\n", successCount)
	fmt.Fprintf(out, "Errors: %d\n", errorCount)
	if errorCount > 0 && successCount == 0 {
		return errors.New("nothing imported")
	}
	return nil
}

// readRows parses a CSV with a header line. Rows whose year or price is not
// a number are kept with zero values so that validation reports them.
func readRows(r io.Reader) ([]importRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]importRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		year, _ := strconv.Atoi(strings.TrimSpace(rec[3]))
		price, _ := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
		rows = append(rows, importRow{
			line:   i + 2,
			title:  rec[0],
			author: rec[1],
			genre:  rec[2],
			year:   year,
			price:  price,
		})
	}
	return rows, nil
}

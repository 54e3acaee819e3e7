package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"book-catalog/library"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)

func testClock() time.Time { return testNow }

func seededManager(t *testing.T, path string) *library.LibraryManager {
	t.Helper()
	mgr, err := library.NewLibraryManager(library.OpenStore(path), zerolog.Nop(), library.WithClock(testClock))
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	_, err = mgr.Seed(library.SampleBooks())
	require.NoError(t, err)
	return mgr
}

// runScript feeds script to a shell over a seeded catalog stored at path.
func runScript(t *testing.T, path, script string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	s := &shell{
		mgr:        seededManager(t, path),
		in:         bufio.NewScanner(strings.NewReader(script)),
		out:        &out,
		exportPath: filepath.Join(filepath.Dir(path), "out.csv"),
		now:        testClock,
	}
	err := s.run()
	return out.String(), err
}

func reload(t *testing.T, path string) []library.Book {
	t.Helper()
	books, err := library.OpenStore(path).Load()
	require.NoError(t, err)
	return books
}

func TestShellAddBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "1\nDune\nFrank Herbert\nSF\n1965\n9,90\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Book added (ID 11).")
	assert.Contains(t, out, "Goodbye!")

	books := reload(t, path)
	require.Len(t, books, 11)
	assert.Equal(t, "Dune", books[10].Title)
	assert.Equal(t, 9.9, books[10].Price)
	assert.True(t, books[10].Available)
}

func TestShellAddBookReportsEveryViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "1\nX\nY\nZ\n999\n-1\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Invalid input:")
	assert.Contains(t, out, "  - year must be an integer between 1000 and 2025")
	assert.Contains(t, out, "  - price must be a strictly positive finite number")
	assert.Len(t, reload(t, path), 10)
}

func TestShellPromptsRetryAndCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "1\n\nq\n4\nabc\nQ\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "This field cannot be empty")
	assert.Contains(t, out, "Invalid input, enter a whole number")
	assert.Equal(t, 2, strings.Count(out, "Cancelled."))
}

func TestShellLending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "4\n1\n4\n1\n5\n2\n11\n1\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Book '1984' borrowed.")
	assert.Contains(t, out, "Error (invalid state)")
	assert.Contains(t, out, "Error (invalid state): book 2 is not borrowed")
	assert.Contains(t, out, "History for '1984':")
	assert.Contains(t, out, "2025-03-14 15:09 : Borrowed")

	books := reload(t, path)
	assert.False(t, books[0].Available)
	assert.Len(t, books[0].History, 1)
}

func TestShellUnknownIDAndOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "42\n4\n99\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Invalid option, choose a number between 0 and 13.")
	assert.Contains(t, out, "Error (not found)")
}

func TestShellDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "8\n3\nn\n8\n99\ny\n8\n3\noui\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, "No book with ID 99.")
	assert.Contains(t, out, "Book deleted.")

	books := reload(t, path)
	require.Len(t, books, 9)
	for _, b := range books {
		assert.NotEqual(t, int64(3), b.ID)
	}
}

func TestShellQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "3\nauthor\nrobert\n3\nyear\n1949\n6\nroman\n12\n\n\ninformatique\n9\nprice\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Found 2 book(s):")
	assert.Contains(t, out, "Error (invalid argument)")
	assert.Contains(t, out, "Found 3 book(s):")
	assert.Contains(t, out, "Le Rouge et le Noir")
}

func TestShellRateAndReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	out, err := runScript(t, path, "10\n2\n6\n10\n2\n4\n7\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "  - rating must be between 1 and 5")
	assert.Contains(t, out, "Book 'Le Petit Prince' rated ★★★★☆")
	assert.Contains(t, out, "- Total books:   10")
	assert.Contains(t, out, "- Total value:   198.08 €")
	assert.Contains(t, out, "- Top genre:     Roman")
	assert.Equal(t, 4, reload(t, path)[1].Rating)
}

func TestShellExport(t *testing.T) {
	dir := t.TempDir()
	out, err := runScript(t, filepath.Join(dir, "lib.json"), "13\n0\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Exported to '"+filepath.Join(dir, "out.csv")+"'.")
	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,titre,auteur,genre,annee_publication,prix,disponible,note\n"))
}

func TestShellEndOfInputSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	_, err := runScript(t, path, "4\n2\n")
	require.NoError(t, err)
	assert.False(t, reload(t, path)[1].Available)

	// EOF in the middle of a prompt behaves the same.
	path = filepath.Join(t.TempDir(), "lib.json")
	_, err = runScript(t, path, "1\nHalf")
	require.NoError(t, err)
	assert.Len(t, reload(t, path), 10)
}

func TestShellQuitWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.json")
	mgr := seededManager(t, path)

	// A non-empty directory at the store path makes every save fail.
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), nil, 0o644))

	var out bytes.Buffer
	s := &shell{
		mgr: mgr,
		in:  bufio.NewScanner(strings.NewReader("0\nn\n0\ny\n")),
		out: &out,
		now: testClock,
	}
	require.NoError(t, s.run())

	assert.Equal(t, 2, strings.Count(out.String(), "Quit without saving?"))
	assert.Contains(t, out.String(), "Error (serialization)")
	assert.Contains(t, out.String(), "Goodbye (changes not saved).")
	assert.NotContains(t, out.String(), "Goodbye!")
}

func TestIsYes(t *testing.T) {
	for _, v := range []string{"y", "Y", "yes", " oui ", "O"} {
		assert.True(t, isYes(v), v)
	}
	for _, v := range []string{"", "n", "no", "non", "yep"} {
		assert.False(t, isYes(v), v)
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "Harry P...", truncateString("Harry Potter", 10))
	assert.Equal(t, "Éco...", truncateString("École des femmes", 6))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★★★★★", stars(9))
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderHistory(&buf, "Sapiens", nil, testNow)
	assert.Equal(t, "No lending recorded for 'Sapiens'.\n", buf.String())
}

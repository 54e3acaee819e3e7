package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSampleCatalog(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.Borrow(3)
	require.NoError(t, err)
	_, err = c.Borrow(7)
	require.NoError(t, err)

	r := c.Report()

	assert.Equal(t, 10, r.Total)
	assert.Equal(t, 8, r.AvailableCount)
	assert.Equal(t, 2, r.BorrowedCount)
	assert.InDelta(t, 198.08, r.TotalValue, 1e-9)
	assert.Equal(t, "Roman", r.MostCommonGenre)
	assert.Equal(t, []int64{2, 10, 8}, ids(r.Cheapest))
	assert.Equal(t, []int64{7, 4, 5}, ids(r.MostExpensive))
}

func TestReportEmptyCatalog(t *testing.T) {
	r := NewCatalog(nil).Report()

	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0.0, r.TotalValue)
	assert.Empty(t, r.MostCommonGenre)
	assert.Empty(t, r.Cheapest)
	assert.Empty(t, r.MostExpensive)
}

func TestReportFewerThanThreeBooks(t *testing.T) {
	c := NewCatalog([]Book{
		{ID: 1, Genre: "A", Price: 20, Available: true},
		{ID: 2, Genre: "B", Price: 10, Available: false},
	})
	r := c.Report()

	assert.Equal(t, []int64{2, 1}, ids(r.Cheapest))
	assert.Equal(t, []int64{1, 2}, ids(r.MostExpensive))
	assert.Equal(t, 1, r.BorrowedCount)
}

func TestReportPriceTies(t *testing.T) {
	c := NewCatalog([]Book{
		{ID: 1, Genre: "A", Price: 5},
		{ID: 2, Genre: "A", Price: 5},
		{ID: 3, Genre: "A", Price: 5},
		{ID: 4, Genre: "A", Price: 5},
	})
	r := c.Report()

	assert.Equal(t, []int64{1, 2, 3}, ids(r.Cheapest))
	assert.Equal(t, []int64{4, 3, 2}, ids(r.MostExpensive))
}

func TestReportGenreTieBreak(t *testing.T) {
	c := NewCatalog([]Book{
		{ID: 1, Genre: "Poésie", Price: 1},
		{ID: 2, Genre: "Roman", Price: 1},
		{ID: 3, Genre: "roman", Price: 1},
		{ID: 4, Genre: "POÉSIE", Price: 1},
		{ID: 5, Genre: "Conte", Price: 1},
	})

	// Both genres count two (case-insensitively); Poésie appears first.
	assert.Equal(t, "Poésie", c.Report().MostCommonGenre)
}

func TestReportDoesNotMutate(t *testing.T) {
	c := newTestCatalog(t)
	before := c.Books()
	_ = c.Report()
	assert.Equal(t, before, c.Books())
}

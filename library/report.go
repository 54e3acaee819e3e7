package library

const reportTopN = 3

// Report computes aggregate statistics over the current collection.
// It does not modify the catalog.
func (c *Catalog) Report() Report {
	books := c.Books()
	r := Report{
		Total:         len(books),
		Cheapest:      []Book{},
		MostExpensive: []Book{},
	}

	counts := make(map[string]int)
	var order []string
	spelling := make(map[string]string)
	for _, b := range books {
		if b.Available {
			r.AvailableCount++
		}
		r.TotalValue += b.Price

		g := fold(b.Genre)
		if _, seen := counts[g]; !seen {
			order = append(order, g)
			spelling[g] = b.Genre
		}
		counts[g]++
	}
	r.BorrowedCount = r.Total - r.AvailableCount

	// First genre (by first appearance) holding the highest count wins ties.
	best := 0
	for _, g := range order {
		if counts[g] > best {
			best = counts[g]
			r.MostCommonGenre = spelling[g]
		}
	}

	sortByPrice(books)
	n := min(reportTopN, len(books))
	r.Cheapest = append(r.Cheapest, books[:n]...)
	for i := len(books) - 1; i >= len(books)-n; i-- {
		r.MostExpensive = append(r.MostExpensive, books[i])
	}
	return r
}

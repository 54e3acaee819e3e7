package library

// SampleBook holds the input fields of one book added when a new catalog is seeded.
type SampleBook struct {
	Title  string
	Author string
	Genre  string
	Year   int
	Price  float64
}

// SampleBooks returns the starter set used to seed an empty catalog.
func SampleBooks() []SampleBook {
	return []SampleBook{
		{"1984", "George Orwell", "Dystopie", 1949, 12.99},
		{"Le Petit Prince", "Antoine de Saint-Exupéry", "Conte", 1943, 9.50},
		{"Harry Potter à l'école des Sorciers", "J.K. Rowling", "Fantasy", 1997, 19.99},
		{"Clean Code", "Robert C. Martin", "Informatique", 2008, 34.90},
		{"Sapiens", "Yuval Noah Harari", "Histoire", 2011, 24.00},
		{"Le Comte de Monte-Cristo", "Alexandre Dumas", "Aventure", 1844, 14.00},
		{"Algorithms", "Robert Sedgewick", "Informatique", 2011, 45.00},
		{"La Peste", "Albert Camus", "Roman", 1947, 11.00},
		{"Don Quichotte", "Miguel de Cervantes", "Roman", 1605, 16.50},
		{"Le Rouge et le Noir", "Stendhal", "Roman", 1830, 10.20},
	}
}

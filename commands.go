package main

import (
	"fmt"
	"strconv"
	"strings"

	"book-catalog/library"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", s)
	}
	return id, nil
}

func newAddCmd(a *app) *cobra.Command {
	var (
		title, author, genre string
		year                 int
		price                float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(true, func(mgr *library.LibraryManager) error {
				b, err := mgr.AddBook(title, author, genre, year, price)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Added book ID %d.\n", b.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "title")
	f.StringVar(&author, "author", "", "author")
	f.StringVar(&genre, "genre", "", "genre")
	f.IntVar(&year, "year", 0, "publication year")
	f.Float64Var(&price, "price", 0, "price")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all books, optionally sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				books := mgr.GetAllBooks()
				if sortKey != "" {
					var err error
					if books, err = mgr.SortBooks(library.ParseField(sortKey)); err != nil {
						return err
					}
				}
				renderBooks(a.out, books)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort by title, author or price")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search FIELD VALUE",
		Short: "Search by title, author or genre (case-insensitive substring)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				books, err := mgr.SearchBooks(library.ParseField(args[0]), args[1])
				if err != nil {
					return err
				}
				renderResults(a.out, books)
				return nil
			})
		},
	}
}

func newFindCmd(a *app) *cobra.Command {
	var q library.Criteria
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search with several criteria at once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				renderResults(a.out, mgr.CombinedSearch(q))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.Title, "title", "", "part of the title")
	f.StringVar(&q.Author, "author", "", "part of the author")
	f.StringVar(&q.Genre, "genre", "", "exact genre")
	return cmd
}

func newGenreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genre GENRE",
		Short: "List the books of one genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				renderResults(a.out, mgr.FilterByGenre(args[0]))
				return nil
			})
		},
	}
}

func newBorrowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow ID",
		Short: "Lend a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withManager(true, func(mgr *library.LibraryManager) error {
				b, err := mgr.BorrowBook(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Book '%s' borrowed.\n", b.Title)
				return nil
			})
		},
	}
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return ID",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withManager(true, func(mgr *library.LibraryManager) error {
				b, err := mgr.ReturnBook(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Book '%s' returned.\n", b.Title)
				return nil
			})
		},
	}
}

func newRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate ID RATING",
		Short: "Rate a book from 1 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating: %s", args[1])
			}
			return a.withManager(true, func(mgr *library.LibraryManager) error {
				b, err := mgr.RateBook(id, rating)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Book '%s' rated %s\n", b.Title, stars(b.Rating))
				return nil
			})
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show the lending history of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				history, err := mgr.History(id)
				if err != nil {
					return err
				}
				b, err := mgr.GetBook(id)
				if err != nil {
					return err
				}
				renderHistory(a.out, b.Title, history, a.now())
				return nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprintf(a.out, "Really delete book %d? (y/N): ", id)
				if !a.in.Scan() || !isYes(a.in.Text()) {
					fmt.Fprintln(a.out, "Cancelled.")
					return nil
				}
			}
			return a.withManager(true, func(mgr *library.LibraryManager) error {
				if !mgr.RemoveBook(id) {
					return fmt.Errorf("no book with ID %d", id)
				}
				fmt.Fprintln(a.out, "Book deleted.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				renderReport(a.out, mgr.Report())
				return nil
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [PATH]",
		Short: "Export the catalog as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.ExportPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.withManager(false, func(mgr *library.LibraryManager) error {
				if err := mgr.Export(path); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Exported to %s\n", path)
				return nil
			})
		},
	}
}

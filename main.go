package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"book-catalog/library"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every command needs: settings, logger and the terminal streams.
type app struct {
	cfg Config
	log zerolog.Logger
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

func main() {
	a := &app{
		cfg: LoadConfig(),
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
		now: time.Now,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newLogger(level string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

// openManager loads the configured store. The caller closes the manager.
func (a *app) openManager() (*library.LibraryManager, error) {
	store := library.OpenStore(a.cfg.StorePath)
	mgr, err := library.NewLibraryManager(store, a.log, library.WithClock(a.now))
	if err != nil {
		store.Close()
		return nil, err
	}
	return mgr, nil
}

// withManager opens the store, runs fn and, when save is set and fn
// succeeded, writes the collection back.
func (a *app) withManager(save bool, fn func(*library.LibraryManager) error) error {
	mgr, err := a.openManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := fn(mgr); err != nil {
		return err
	}
	if save {
		return mgr.Save()
	}
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	var noSeed bool

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Manage a small catalog of books",
		Long:          "Manage a small catalog of books: add, search, lend and return, rate, report and export.\nWithout a subcommand it starts the interactive menu.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noSeed {
				a.cfg.Seed = false
			}
			a.log = newLogger(a.cfg.LogLevel, os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfg.StorePath, "store", a.cfg.StorePath, "catalog file (.json, or .db/.sqlite for SQLite)")
	pf.StringVar(&a.cfg.ExportPath, "export", a.cfg.ExportPath, "default CSV export path")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "diagnostic log level (debug, info, warn, error)")
	pf.BoolVar(&noSeed, "no-seed", false, "do not add the sample books to an empty catalog")

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive menu",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return a.runShell() },
		},
		newAddCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newFindCmd(a),
		newGenreCmd(a),
		newBorrowCmd(a),
		newReturnCmd(a),
		newRateCmd(a),
		newHistoryCmd(a),
		newRemoveCmd(a),
		newReportCmd(a),
		newExportCmd(a),
	)
	return root
}

// runShell opens the store, seeds an empty catalog if enabled and runs the menu loop.
func (a *app) runShell() error {
	mgr, err := a.openManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	if a.cfg.Seed {
		n, err := mgr.Seed(library.SampleBooks())
		if err != nil {
			return err
		}
		if n > 0 {
			if err := mgr.Save(); err != nil {
				fmt.Fprintf(a.out, "Warning: could not save sample books: %v\n", err)
			}
		}
	}

	sh := &shell{mgr: mgr, in: a.in, out: a.out, exportPath: a.cfg.ExportPath, now: a.now}
	return sh.run()
}

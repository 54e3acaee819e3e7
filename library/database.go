package library

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"
)

// SQLiteStore keeps the collection in a SQLite file. Each Save replaces the
// whole snapshot in one transaction.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore { return &SQLiteStore{path: path} }

func (s *SQLiteStore) Path() string { return s.path }

// Close releases the connection, if one was opened.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// open connects lazily so that loading a missing file does not create it.
func (s *SQLiteStore) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", s.path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	s.db = db
	return db, nil
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta: %w", err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY,
            position INTEGER NOT NULL,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            genre TEXT NOT NULL,
            year INTEGER NOT NULL,
            price REAL NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1,
            rating INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS history (
            book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
            seq INTEGER NOT NULL,
            action TEXT NOT NULL,
            date TEXT NOT NULL,
            PRIMARY KEY (book_id, seq)
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Snapshot load/save
// ---------------------------------------------------------------------------

func (s *SQLiteStore) Load() ([]Book, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return []Book{}, nil
	}
	db, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.path, err, ErrCorruptData)
	}

	books, err := loadBooks(db)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", s.path, err, ErrCorruptData)
	}
	if err := checkLoaded(books); err != nil {
		return nil, err
	}

	var stored string
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='checksum';`).Scan(&stored)
	if len(books) > 0 || stored != "" {
		sum, err := checksum(books)
		if err != nil {
			return nil, err
		}
		if sum != stored {
			return nil, fmt.Errorf("%s: checksum mismatch: %w", s.path, ErrCorruptData)
		}
	}
	return books, nil
}

func loadBooks(db *sql.DB) ([]Book, error) {
	rows, err := db.Query(`SELECT id,title,author,genre,year,price,available,rating FROM books ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	index := make(map[int64]int)
	for rows.Next() {
		b := Book{History: []HistoryEntry{}}
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year, &b.Price, &b.Available, &b.Rating); err != nil {
			return nil, err
		}
		index[b.ID] = len(books)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hrows, err := db.Query(`SELECT book_id,action,date FROM history ORDER BY book_id, seq`)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var (
			id     int64
			action string
			h      HistoryEntry
		)
		if err := hrows.Scan(&id, &action, &h.Date); err != nil {
			return nil, err
		}
		if err := h.Action.UnmarshalText([]byte(action)); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("history for unknown book %d", id)
		}
		books[i].History = append(books[i].History, h)
	}
	return books, hrows.Err()
}

func (s *SQLiteStore) Save(books []Book) error {
	sum, err := checksum(books)
	if err != nil {
		return err
	}
	db, err := s.open()
	if err != nil {
		return fmt.Errorf("%s: %v: %w", s.path, err, ErrSerialization)
	}
	if err := saveBooks(db, books, sum); err != nil {
		return fmt.Errorf("%s: %v: %w", s.path, err, ErrSerialization)
	}
	return nil
}

func saveBooks(db *sql.DB, books []Book, sum string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return err
	}

	bookStmt, err := tx.Prepare(`INSERT INTO books(id,position,title,author,genre,year,price,available,rating) VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer bookStmt.Close()
	histStmt, err := tx.Prepare(`INSERT INTO history(book_id,seq,action,date) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer histStmt.Close()

	for pos, b := range books {
		if _, err := bookStmt.Exec(b.ID, pos, b.Title, b.Author, b.Genre, b.Year, b.Price, b.Available, b.Rating); err != nil {
			return err
		}
		for seq, h := range b.History {
			if _, err := histStmt.Exec(b.ID, seq, string(h.Action), h.Date); err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('checksum',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, sum); err != nil {
		return err
	}
	return tx.Commit()
}

// checksum is the blake2b-256 digest of the JSON encoding of books.
func checksum(books []Book) (string, error) {
	canonical := make([]Book, len(books))
	for i := range books {
		canonical[i] = books[i].clone()
	}
	data, err := encodeBooks(canonical)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

package library

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// The standard-library compatible config keeps float64 prices exact.
var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONStore keeps the collection as an indented JSON list of books.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore { return &JSONStore{path: path} }

func (s *JSONStore) Path() string { return s.path }
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) Load() ([]Book, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return decodeBooks(data)
}

func decodeBooks(data []byte) ([]Book, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a list of books: %w", ErrCorruptData)
	}
	var books []Book
	if err := jsonCodec.Unmarshal(trimmed, &books); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptData)
	}
	if books == nil {
		books = []Book{}
	}
	if err := checkLoaded(books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *JSONStore) Save(books []Book) error {
	data, err := encodeBooks(books)
	if err != nil {
		return err
	}
	err = writeFileAtomic(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %v: %w", s.path, err, ErrSerialization)
	}
	return nil
}

func encodeBooks(books []Book) ([]byte, error) {
	if books == nil {
		books = []Book{}
	}
	data, err := jsonCodec.MarshalIndent(books, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode books: %v: %w", err, ErrSerialization)
	}
	return append(data, '\n'), nil
}

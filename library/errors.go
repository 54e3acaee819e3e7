package library

import (
	"errors"
	"strings"
)

// Sentinel errors, one per failure kind. Match with errors.Is.
var (
	// ErrValidation is returned when field values are rejected on create or rate.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")

	// ErrInvalidState is returned for a borrow of a borrowed book or a return of an available one.
	ErrInvalidState = errors.New("invalid lending state")

	// ErrInvalidArgument is returned for an unknown search field or sort key.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptData is returned when a store exists but cannot be read back as a book list.
	ErrCorruptData = errors.New("corrupt data")

	// ErrSerialization is returned when the collection cannot be encoded or written.
	ErrSerialization = errors.New("serialization failed")
)

// ValidationError lists every rule a candidate book violated.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Kind is the discriminant of a catalog error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
	KindInvalidArgument
	KindCorruptData
	KindSerialization
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindValidation:      "validation",
	KindNotFound:        "not found",
	KindInvalidState:    "invalid state",
	KindInvalidArgument: "invalid argument",
	KindCorruptData:     "corrupt data",
	KindSerialization:   "serialization",
}

func (k Kind) String() string { return kindNames[k] }

// KindOf classifies err. Nil and foreign errors are KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrCorruptData):
		return KindCorruptData
	case errors.Is(err, ErrSerialization):
		return KindSerialization
	}
	return KindUnknown
}

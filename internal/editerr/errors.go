// Package editerr defines the typed failures returned by the source editor.
//
// Every failure carries a Kind so callers can map it to a user-facing message
// without string matching:
//
//	if errors.Is(err, editerr.ErrEntryNotFound) { ... }
package editerr

import (
	"errors"
	"fmt"
)

// Kind classifies an edit failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors that did not originate here.
	Unknown Kind = iota
	// RegionNotFound: the script block or the export statement is missing or ambiguous.
	RegionNotFound
	// ParseFailure: malformed literal syntax inside a located region.
	ParseFailure
	// DeclarationNotFound: the named array/object declaration is absent.
	DeclarationNotFound
	// EntryNotFound: update target id is absent.
	EntryNotFound
	// EntryExists: add target id is already present.
	EntryExists
	// StructuralAmbiguity: a shape that cannot be classified safely.
	StructuralAmbiguity
	// InvalidInput: the caller supplied a resource or translation that fails validation.
	InvalidInput
)

func (k Kind) String() string {
	switch k {
	case RegionNotFound:
		return "region not found"
	case ParseFailure:
		return "parse failure"
	case DeclarationNotFound:
		return "declaration not found"
	case EntryNotFound:
		return "entry not found"
	case EntryExists:
		return "entry exists"
	case StructuralAmbiguity:
		return "structural ambiguity"
	case InvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is a classified edit failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrRegionNotFound      = &Error{Kind: RegionNotFound}
	ErrParseFailure        = &Error{Kind: ParseFailure}
	ErrDeclarationNotFound = &Error{Kind: DeclarationNotFound}
	ErrEntryNotFound       = &Error{Kind: EntryNotFound}
	ErrEntryExists         = &Error{Kind: EntryExists}
	ErrStructuralAmbiguity = &Error{Kind: StructuralAmbiguity}
	ErrInvalidInput        = &Error{Kind: InvalidInput}
)

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Errorf builds a classified error. A %w verb in format keeps the wrapped
// error reachable through errors.As.
func Errorf(kind Kind, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Msg: wrapped.Error(), Err: errors.Unwrap(wrapped)}
}

// Wrap classifies err under kind, prefixing msg. A nil err stays nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg + ": " + err.Error(), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Package domain holds the value objects and error taxonomy shared by every
// Constellation subsystem.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of domain error kinds every operation maps
// its failures onto.
type ErrorKind int

const (
	// InvalidFilePath indicates a path failed FilePath validation.
	InvalidFilePath ErrorKind = iota
	// InvalidTagValue indicates a tag value failed validation.
	InvalidTagValue
	// InvalidColor indicates a color string failed validation.
	InvalidColor
	// ItemNotFound indicates a requested item does not exist.
	ItemNotFound
	// TagNotFound indicates a requested tag does not exist.
	TagNotFound
	// TagGroupNotFound indicates a requested tag group does not exist.
	TagGroupNotFound
	// TagTemplateNotFound indicates a requested tag template does not exist.
	TagTemplateNotFound
	// DuplicateEntry indicates a uniqueness constraint was violated.
	DuplicateEntry
	// ValidationError indicates a generic rule violation, including
	// repository-layer wrapping of pool/interaction failures.
	ValidationError
	// DatabaseError indicates an underlying store failure.
	DatabaseError
	// UsnJournalError indicates a USN journal API failure (not active,
	// query failure, read failure, or unsupported platform).
	UsnJournalError
	// ThumbnailError indicates a thumbnail generation, encoding, or cache
	// failure.
	ThumbnailError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFilePath:
		return "InvalidFilePath"
	case InvalidTagValue:
		return "InvalidTagValue"
	case InvalidColor:
		return "InvalidColor"
	case ItemNotFound:
		return "ItemNotFound"
	case TagNotFound:
		return "TagNotFound"
	case TagGroupNotFound:
		return "TagGroupNotFound"
	case TagTemplateNotFound:
		return "TagTemplateNotFound"
	case DuplicateEntry:
		return "DuplicateEntry"
	case ValidationError:
		return "ValidationError"
	case DatabaseError:
		return "DatabaseError"
	case UsnJournalError:
		return "UsnJournalError"
	case ThumbnailError:
		return "ThumbnailError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every domain operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can use errors.Is(err, domain.New(domain.ItemNotFound, "")).
func (e *Error) Is(target error) bool {
	var de *Error
	if errors.As(target, &de) {
		return de.Kind == e.Kind
	}
	return false
}

// New constructs a domain error of the given kind with a formatted message.
func New(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a domain error of the given kind, wrapping an underlying
// error so errors.Is/errors.As can still see through to it.
func Wrap(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from err, if it is (or wraps) a *Error.
// The second return value is false if err does not carry a domain kind.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

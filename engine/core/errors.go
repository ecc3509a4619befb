package core

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrSchemaMismatch   = errors.New("schema mismatch")
	ErrValueConversion  = errors.New("value conversion failed")

	ErrMeshNotInitialized = errors.New("mesh buffers not initialized")
	ErrUnknownLoader      = errors.New("unknown loader kind")
	ErrUnknown            = errors.New("unknown")
)

// LoadErrorKind classifies why a source could not be turned into geometry.
type LoadErrorKind uint8

const (
	// The file is missing or could not be parsed at all.
	SourceUnreadable LoadErrorKind = iota
	// Required columns are absent, or an imported scene carries no usable mesh.
	SchemaMismatch
	// A cell failed numeric conversion.
	ValueConversion
)

func (k LoadErrorKind) String() string {
	switch k {
	case SourceUnreadable:
		return "source unreadable"
	case SchemaMismatch:
		return "schema mismatch"
	case ValueConversion:
		return "value conversion"
	}
	return "unknown"
}

func (k LoadErrorKind) sentinel() error {
	switch k {
	case SourceUnreadable:
		return ErrSourceUnreadable
	case SchemaMismatch:
		return ErrSchemaMismatch
	case ValueConversion:
		return ErrValueConversion
	}
	return ErrUnknown
}

// LoadError is returned by every source loader. Row is 1-based and counts
// data rows only; it is zero when the failure is not tied to a row.
type LoadError struct {
	Kind   LoadErrorKind
	Path   string
	Column string
	Row    int
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Path, e.Kind)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q", e.Column)
		if e.Row > 0 {
			msg += fmt.Sprintf(", row %d", e.Row)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets callers match on the kind sentinels, e.g. errors.Is(err, ErrSchemaMismatch).
func (e *LoadError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func NewLoadError(kind LoadErrorKind, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Err: err}
}

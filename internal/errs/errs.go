// Package errs defines the error taxonomy shared by every core package:
// InputError, DataError, StoreError, ConfigError, IngestError. Callers
// use errors.Is/errors.As against the sentinel Kind values; concrete
// errors are built by wrapping a Kind with fmt.Errorf("...: %w", err).
package errs

import (
	"errors"
	"fmt"
)

// Kind is a taxonomy marker, not a concrete error type. It is wrapped by
// concrete errors so callers can classify failures with errors.Is.
type Kind error

var (
	// Input — unknown or malformed identifiers supplied by a caller.
	Input Kind = errors.New("input error")
	// Data — the target or peer set lacks what scoring requires.
	Data Kind = errors.New("data error")
	// Store — the geometry store is unreachable, times out, or violates
	// an expected invariant.
	Store Kind = errors.New("store error")
	// Config — a configuration option is out of range.
	Config Kind = errors.New("config error")
	// Ingest — a source file is unreadable, or a load exceeded its
	// error budget, or a transform is undocumented for the source CRS.
	Ingest Kind = errors.New("ingest error")
)

// PropertyNotFound is a concrete Input error for an unknown property id.
var PropertyNotFound = fmt.Errorf("%w: property not found", Input)

// InsufficientData is a concrete Data error for a target/peer set that
// cannot be scored.
var InsufficientData = fmt.Errorf("%w: insufficient data to score", Data)

// Wrap tags err with kind, preserving err for errors.Is/As and wrapping.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: %s: %w", kind, msg, err)
}

// Is reports whether err is classified under kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind)
}

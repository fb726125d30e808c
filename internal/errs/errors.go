// Package errs provides the unified error type used across modelgen.
//
// Schema sources, emitters and the generator wrap their native errors into
// *errs.Error before returning them. Callers branch on the kind through the
// Is* predicates and never import driver-specific packages.
//
// Usage:
//
//	// In a source driver, wrap the native error:
//	return errs.Wrap(errs.ErrKindQueryFailed, "metadata query failed", pgErr)
//
//	// In the CLI, decide how to exit:
//	if errs.IsInvalidConfig(err) {
//	    os.Exit(2)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindInvalidConfig            // unsupported driver/provider, unreadable config
	ErrKindConnectionFailed         // cannot reach or authenticate to the backend
	ErrKindQueryFailed              // metadata query could not run or be scanned
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindWriteFailed              // one generated file could not be persisted
	ErrKindUnmappedType             // vendor type token outside the mapping table
	ErrKindNotFound                 // no rows, no object, no bucket
	ErrKindPermissionDenied         // access denied
	ErrKindInvalidInput             // bad arguments from the caller
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidConfig:
		return "invalid_config"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindWriteFailed:
		return "write_failed"
	case ErrKindUnmappedType:
		return "unmapped_type"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by modelgen subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsInvalidConfig reports whether err is a configuration error raised
// before any I/O took place.
func IsInvalidConfig(err error) bool {
	return KindOf(err) == ErrKindInvalidConfig
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a metadata query failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsWriteFailed reports whether err is a per-file write failure.
func IsWriteFailed(err error) bool {
	return KindOf(err) == ErrKindWriteFailed
}

// IsUnmappedType reports whether err was raised for a column whose vendor
// type has no scalar mapping.
func IsUnmappedType(err error) bool {
	return KindOf(err) == ErrKindUnmappedType
}

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// Fatal reports whether an error of this kind ends a generation run.
// Write failures are isolated to a single file and never end the run.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err) != ErrKindWriteFailed
}

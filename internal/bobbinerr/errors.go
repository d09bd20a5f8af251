// Package bobbinerr is the typed error vocabulary shared across bobbin's
// core packages, per the kinds enumerated in the error handling design.
package bobbinerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the fixed error categories a caller can switch on.
type Kind string

const (
	KindNotInitialized   Kind = "not_initialized"
	KindEmptyIndex       Kind = "empty_index"
	KindModelMismatch    Kind = "model_mismatch"
	KindParseFailed      Kind = "parse_failed"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindStoreIO          Kind = "store_io"
	KindGitUnavailable    Kind = "git_unavailable"
	KindResolverUnresolved Kind = "resolver_unresolved"
)

// Error wraps an underlying cause with a fixed Kind and a short,
// human-actionable message.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's category.
func (e *Error) Kind() Kind { return e.kind }

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap constructs an Error of the given kind that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// NotInitialized reports that no config exists at the expected path.
func NotInitialized(path string) *Error {
	return New(KindNotInitialized, fmt.Sprintf("bobbin is not initialized at %s (run `bobbin init`)", path))
}

// ModelMismatch reports that the configured embedder differs from the
// model recorded in Meta.
func ModelMismatch(configured, stored string) *Error {
	return New(KindModelMismatch, fmt.Sprintf("embedding model mismatch: configured %q but index was built with %q", configured, stored))
}

// DimensionMismatch reports an attempt to insert a vector of the wrong length.
func DimensionMismatch(got, want int) *Error {
	return New(KindDimensionMismatch, fmt.Sprintf("embedding has %d dimensions, store expects %d", got, want))
}

// ParseFailed wraps a per-file parse error. Callers log and continue; it
// never aborts the indexing pipeline.
func ParseFailed(path string, cause error) *Error {
	return Wrap(KindParseFailed, fmt.Sprintf("failed to parse %s", path), cause)
}

// StoreIO wraps a persistent-store failure.
func StoreIO(op string, cause error) *Error {
	return Wrap(KindStoreIO, fmt.Sprintf("store operation %q failed", op), cause)
}

// GitUnavailable reports that git could not be invoked or the directory
// isn't a repository. Coupling/commit indexing become no-ops.
func GitUnavailable(cause error) *Error {
	return Wrap(KindGitUnavailable, "git is unavailable for this directory", cause)
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}

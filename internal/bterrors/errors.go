// Package bterrors defines the error taxonomy of spec.md §7: sentinel
// input errors, a retriable transient-transport wrapper, and a page-fatal
// DOM error, grounded on the teacher's deleted internal/models/errors.go
// sentinel-error style.
package bterrors

import (
	"errors"
	"fmt"
)

// Input errors are fatal: the run cannot proceed at all.
var (
	ErrMalformedEPUB       = errors.New("bterrors: malformed EPUB archive")
	ErrUnsupportedLanguage = errors.New("bterrors: unsupported language code")
	ErrMissingCredentials  = errors.New("bterrors: missing API credentials")
)

// Transient wraps a retriable transport failure: non-200 HTTP, connection
// reset, timeout. Retry exhaustion turns it into a permanent error that
// still unwraps to the original cause.
type Transient struct {
	Cause error
}

func (e *Transient) Error() string { return fmt.Sprintf("transient transport error: %v", e.Cause) }
func (e *Transient) Unwrap() error { return e.Cause }

// ProtocolShape reports a well-formed HTTP response whose JSON body does
// not contain the expected choices[0].message.content shape. Retriable up
// to a configured limit, then surfaced as a page error.
type ProtocolShape struct {
	Detail string
}

func (e *ProtocolShape) Error() string { return "protocol shape error: " + e.Detail }

// PageError is a failure confined to one page: the page could not be
// read, parsed, translated or written. The book orchestrator aborts the
// book on it; in best-effort mode a page that cannot be read or
// translated is instead logged, left untranslated, and skipped.
type PageError struct {
	Path  string
	Cause error
}

func (e *PageError) Error() string { return fmt.Sprintf("page %s: %v", e.Path, e.Cause) }
func (e *PageError) Unwrap() error { return e.Cause }

// IsRetriable reports whether err is a kind that Batch Translator retry
// logic should attempt again rather than surface immediately.
func IsRetriable(err error) bool {
	var transient *Transient
	var shape *ProtocolShape
	return errors.As(err, &transient) || errors.As(err, &shape)
}

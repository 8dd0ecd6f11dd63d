package crawler

import (
	"errors"
	"fmt"
)

// ErrDuplicate marks a record dropped by the dedup filter. It is a normal
// filtering outcome, not a failure.
var ErrDuplicate = errors.New("duplicate record")

// TransportError reports an unreachable page or a non-2xx response. The
// caller decides how much of the crawl the failure takes down: a category
// branch, a single candidate product, or just the review stage.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports malformed or missing expected structure in a fetched
// document. Field-level failures inside the assembler use documented defaults
// instead of raising this.
type ParseError struct {
	Kind TaskKind
	URL  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a sink failure for one record. Failures are logged per
// record and never block other records or the other sink.
type WriteError struct {
	Sink string
	URL  string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s write %s: %v", e.Sink, e.URL, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

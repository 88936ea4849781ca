package core

import (
	"context"
	"fmt"
	"time"
)

// MaxUpcoming caps how many sessions a source returns. The timeline shows
// at most the first page of upcoming sessions; anything after the tenth
// is simply not shown.
const MaxUpcoming = 10

// FetchErrorKind distinguishes why a fetch failed.
type FetchErrorKind int

const (
	// ErrTransport covers network failures and non-success HTTP statuses.
	ErrTransport FetchErrorKind = iota
	// ErrParse covers malformed or unexpected payload shapes.
	ErrParse
)

// FetchError is the only error type a SessionSource returns. An empty
// result is not an error; it is the valid "no sessions scheduled" state.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrParse:
		return fmt.Sprintf("parse calendar response: %v", e.Err)
	default:
		return fmt.Sprintf("reach calendar service: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// TransportError wraps err as a transport-level fetch failure.
func TransportError(err error) *FetchError {
	return &FetchError{Kind: ErrTransport, Err: err}
}

// ParseError wraps err as a malformed-payload fetch failure.
func ParseError(err error) *FetchError {
	return &FetchError{Kind: ErrParse, Err: err}
}

// SessionSource represents the external calendar the session feed is
// read from. Implementations issue a single bounded query and never
// retry, cache, or write back.
type SessionSource interface {
	// FetchUpcoming retrieves at most MaxUpcoming sessions starting at or
	// after now, ordered by start time ascending, with recurring entries
	// pre-expanded to single instances. A nil/empty slice with a nil
	// error means no sessions are scheduled. All failures come back as a
	// *FetchError; nothing is thrown past this boundary.
	FetchUpcoming(ctx context.Context, now time.Time) ([]Session, error)
}

// Package srcerr defines the error kinds surfaced by source descriptor
// construction. Callers classify errors with errors.Is against the markers.
package srcerr

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound marks a lookup of a table id with no live cached descriptor.
	ErrNotFound = errors.New("not found")
	// ErrProtocol marks a wire specification that violates a structural precondition.
	ErrProtocol = errors.New("protocol error")
	// ErrConnector marks malformed connector configuration or a failed connector/parser construction.
	ErrConnector = errors.New("connector error")
	// ErrInternal marks invariant violations not attributable to user input.
	ErrInternal = errors.New("internal error")
)

func NotFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf("not found: "+format, args...), ErrNotFound)
}

func Protocolf(format string, args ...any) error {
	return errors.Mark(errors.Newf("protocol error: "+format, args...), ErrProtocol)
}

// Connector wraps a collaborator failure. The cause stays reachable through errors.Is/As.
func Connector(cause error) error {
	if cause == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(cause, "connector error"), ErrConnector)
}

func Connectorf(format string, args ...any) error {
	return errors.Mark(errors.Newf("connector error: "+format, args...), ErrConnector)
}

func Internalf(format string, args ...any) error {
	return errors.Mark(errors.Newf("internal error: "+format, args...), ErrInternal)
}

// Kind returns the name of the marker err carries, or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrConnector):
		return "connector"
	case errors.Is(err, ErrInternal):
		return "internal"
	default:
		return "unknown"
	}
}

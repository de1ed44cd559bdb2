package connect

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress rejects an address whose scheme, host, or port is
	// missing. No connector is invoked for these.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnsupportedScheme rejects a well-formed address whose scheme has
	// no registered connector. No connector is invoked for these.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// ConnectionError wraps a connector-reported failure: refusals, timeouts,
// protocol mismatches. These are recoverable; the user may retry.
type ConnectionError struct {
	Endpoint Endpoint
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

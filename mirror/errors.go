package mirror

import (
	"errors"
	"fmt"
)

// ErrTransport is matched by every error returned when the mirror node could
// not be reached or the response could not be read.
var ErrTransport = errors.New("mirror node unreachable")

// TransportError describes a request that never produced an HTTP status.
type TransportError struct {
	Host string
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s%s failed: %v", e.Host, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport as a match so callers can use errors.Is.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

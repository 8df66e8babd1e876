package supply

import (
	"errors"
	"fmt"
)

// Error kinds returned by Aggregate. Transport failures are returned as
// *mirror.TransportError and match mirror.ErrTransport.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed mirror response")
)

// InvalidInputError names the argument that failed validation
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Resources queried on the mirror node
const (
	ResourceToken    = "token"
	ResourceBalances = "balances"
)

// NotFoundError is returned when the mirror node answers with a non-200 status
type NotFoundError struct {
	Resource   string
	Token      string
	StatusCode int
}

func (e *NotFoundError) Error() string {
	if e.Resource == ResourceBalances {
		return fmt.Sprintf("balances for token %s were not found, code: %d", e.Token, e.StatusCode)
	}
	return fmt.Sprintf("HTS token %s was not found, code: %d", e.Token, e.StatusCode)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedResponseError is returned when a 200 body cannot be used
type MalformedResponseError struct {
	Resource string
	Token    string
	Path     string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response for token %s (%s): %v", e.Resource, e.Token, e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

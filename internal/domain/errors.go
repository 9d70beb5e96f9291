package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrTransport         = errors.New("transport error")
	ErrDecode            = errors.New("decode error")
	ErrSchema            = errors.New("schema error")
	ErrUnsupportedFilter = errors.New("unsupported filter")
	ErrNotInitialized    = errors.New("source not initialized")
)

// Error carries one of the sentinel kinds above together with the operation
// that failed and the underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func NewError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

package placeholder

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream responses.
var (
	ErrNotFound    = errors.New("placeholder: not found")
	ErrRateLimited = errors.New("placeholder: rate limited by server")
	ErrBadRequest  = errors.New("placeholder: bad request")
	ErrServer      = errors.New("placeholder: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string
	ID  int64
	Err error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("placeholder %s [post %d]: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("placeholder %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, id int64, err error) error {
	return &Error{Op: op, ID: id, Err: err}
}

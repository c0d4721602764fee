package chat

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAuthRequired is returned when a mutating operation is attempted
	// without an authenticated user.
	ErrAuthRequired = errors.New("user not authenticated")

	// ErrNoActiveChat is returned when a message operation is attempted with
	// no chat selected.
	ErrNoActiveChat = errors.New("no active chat")
)

// TransportError wraps a network or backend failure, preserving its cause.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

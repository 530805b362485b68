package host

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is matched by every error a host returns for a
// capability it does not provide.
var ErrNotImplemented = errors.New("the method or operation is not implemented")

// UnsupportedError reports a host method that is part of the contract but
// deliberately not provided. It is permanent; callers must not retry.
type UnsupportedError struct {
	Method string
}

// Error implements error.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, ErrNotImplemented)
}

// Unwrap returns ErrNotImplemented so errors.Is works on wrapped values.
func (e *UnsupportedError) Unwrap() error { return ErrNotImplemented }

// Unsupported returns an *UnsupportedError for method.
func Unsupported(method string) error {
	return &UnsupportedError{Method: method}
}

// IsUnsupported reports whether err signals a missing host capability.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

package validation

import (
	"errors"
	"fmt"
)

// ErrSecurity is the sentinel every *SecurityError matches with errors.Is.
var ErrSecurity = errors.New("validation: security check failed")

// SecurityError reports a failed anti-forgery check. Request processing must
// stop without further output.
type SecurityError struct {
	Slug string
	Err  error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("validation: token rejected for %q", e.Slug)
}

// Is matches ErrSecurity.
func (e *SecurityError) Is(target error) bool {
	return target == ErrSecurity
}

func (e *SecurityError) Unwrap() error {
	return e.Err
}

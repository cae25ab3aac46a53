package envelope

import (
	"errors"
	"fmt"
)

// MalformedError indicates the input is not a usable envelope.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed envelope: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed envelope: %s", e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err indicates a malformed envelope.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}

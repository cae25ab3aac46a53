package signing

import "errors"

// RejectedError indicates no candidate key validated the signature.
// The message does not name the keys that were tried.
type RejectedError struct {
	Candidates int
}

func (e *RejectedError) Error() string {
	return "verification failed"
}

// IsRejected reports whether err indicates a rejected signature.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

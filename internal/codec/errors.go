package codec

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

// Field names the value that failed to encode or decode.
type Field string

const (
	FieldSignature Field = "signature"
	FieldMessage   Field = "message"
)

// EncodingError indicates a signature or message has an invalid transport form.
type EncodingError struct {
	Field  Field
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IsEncodingError reports whether err indicates an encoding failure.
func IsEncodingError(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}

func lengthReason(n int) string {
	return fmt.Sprintf("decoded to %d bytes, want %d", n, ed25519.SignatureSize)
}

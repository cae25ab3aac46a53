package keysource

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEd25519 indicates key material of another algorithm.
	ErrNotEd25519 = errors.New("not an ed25519 key")
	// ErrPassphraseProtected indicates an encrypted private key.
	ErrPassphraseProtected = errors.New("passphrase-protected keys are not supported")
	// ErrNoHome indicates a default key path was needed but no home directory is known.
	ErrNoHome = errors.New("no home directory detected")
)

// KeyNotFoundError indicates key material could not be read.
type KeyNotFoundError struct {
	Path string
	Err  error
}

func (e *KeyNotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("key not found: %v", e.Err)
	}
	return fmt.Sprintf("key not found at %s: %v", e.Path, e.Err)
}

func (e *KeyNotFoundError) Unwrap() error {
	return e.Err
}

// KeyFormatError indicates key bytes could not be decoded into an ed25519 key.
type KeyFormatError struct {
	Path string
	Err  error
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("cannot decode key %s: %v", e.Path, e.Err)
}

func (e *KeyFormatError) Unwrap() error {
	return e.Err
}

// KeySourceUnavailableError indicates a remote key listing could not supply
// any usable key.
type KeySourceUnavailableError struct {
	Source string
	Reason string
	Err    error
}

func (e *KeySourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key source %s unavailable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("key source %s unavailable: %s", e.Source, e.Reason)
}

func (e *KeySourceUnavailableError) Unwrap() error {
	return e.Err
}

// IsKeyNotFound reports whether err indicates missing key material.
func IsKeyNotFound(err error) bool {
	var ke *KeyNotFoundError
	return errors.As(err, &ke)
}

// IsKeyFormat reports whether err indicates undecodable key material.
func IsKeyFormat(err error) bool {
	var ke *KeyFormatError
	return errors.As(err, &ke)
}

// IsSourceUnavailable reports whether err indicates an unusable key source.
func IsSourceUnavailable(err error) bool {
	var ke *KeySourceUnavailableError
	return errors.As(err, &ke)
}

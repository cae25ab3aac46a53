package main

import (
	"errors"
	"fmt"

	"github.com/d2verb/signit/internal/codec"
	"github.com/d2verb/signit/internal/config"
	"github.com/d2verb/signit/internal/envelope"
	"github.com/d2verb/signit/internal/keysource"
	"github.com/d2verb/signit/internal/signing"
)

// Exit codes for CLI commands.
const (
	exitSuccess              = 0
	exitError                = 1
	exitKeyNotFound          = 2
	exitKeyFormat            = 3
	exitKeySourceUnavailable = 4
	exitEncoding             = 5
	exitMalformedEnvelope    = 6
	exitVerificationRejected = 7
)

// ExitError represents an error that should cause the process to exit with a specific code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// toExitError maps a command error to its exit code and user-facing message.
func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case signing.IsRejected(err):
		return errVerificationRejected()
	case keysource.IsKeyNotFound(err):
		return &ExitError{
			Code:    exitKeyNotFound,
			Message: fmt.Sprintf("Unable to load key, please specify one using -k.\n%v", err),
		}
	case keysource.IsKeyFormat(err):
		return &ExitError{
			Code:    exitKeyFormat,
			Message: fmt.Sprintf("Specified or detected key is not a usable ed25519 key.\n%v", err),
		}
	case keysource.IsSourceUnavailable(err):
		return &ExitError{
			Code:    exitKeySourceUnavailable,
			Message: fmt.Sprintf("Failed to get public keys.\n%v", err),
		}
	case codec.IsEncodingError(err):
		return &ExitError{
			Code:    exitEncoding,
			Message: fmt.Sprintf("Envelope content is not properly encoded.\n%v", err),
		}
	case envelope.IsMalformed(err):
		return &ExitError{
			Code:    exitMalformedEnvelope,
			Message: fmt.Sprintf("Failed to parse envelope.\n%v", err),
		}
	case config.IsParseError(err):
		return &ExitError{
			Code:    exitError,
			Message: fmt.Sprintf("Invalid configuration.\n%v", err),
		}
	default:
		return &ExitError{Code: exitError, Message: err.Error()}
	}
}

func errVerificationRejected() *ExitError {
	return &ExitError{
		Code:    exitVerificationRejected,
		Message: "Verification failed!",
	}
}

func errConfigExists(path string) *ExitError {
	return &ExitError{
		Code:    exitError,
		Message: fmt.Sprintf("Config file '%s' already exists.\nRun: signit config init --force", path),
	}
}

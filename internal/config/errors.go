package config

import (
	"errors"
	"fmt"
)

// ParseError indicates the configuration file could not be used.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err came from a bad configuration file.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// AlreadyExistsError indicates a configuration file is already present.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("config file '%s' already exists", e.Path)
}

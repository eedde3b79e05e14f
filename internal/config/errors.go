package config

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch means a value has the wrong type for a typed getter.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeError records a value that could not be read as the requested type.
type TypeError struct {
	Key      string
	Expected string
	Value    any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("setting %s: expected %s, got %T (%v)", e.Key, e.Expected, e.Value, e.Value)
}

func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

package cmd

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAlias          = errors.New("alias must not be empty")
	ErrInvalidAlias        = errors.New("alias must not contain whitespace")
	ErrNilCommand          = errors.New("command must not be nil")
	ErrInvalidTemplate     = errors.New("invalid argument template")
	ErrChoicesNotSupported = errors.New("choices are not supported for this option type")
	ErrArgumentsLoaded     = errors.New("arguments can only be loaded once")
	ErrCoercion            = errors.New("argument cannot be converted")
)

// ArgumentError reports an argument that could not be read as the requested
// kind. It matches ErrCoercion with errors.Is.
type ArgumentError struct {
	Want OptionType
	Raw  string
	Err  error
}

func (e *ArgumentError) Error() string {
	msg := fmt.Sprintf("argument %q is not a valid %s", e.Raw, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArgumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Err}
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

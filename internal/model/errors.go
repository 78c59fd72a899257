package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParameterType is returned for a "type" that is not one of Kinds.
	ErrUnknownParameterType = errors.New("unknown parameter type")
	// ErrTypeMismatch is returned when a value cannot be held by the parameter's kind.
	ErrTypeMismatch = errors.New("value does not match parameter type")
	// ErrOutOfRange is returned for a number outside the parameter's range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrNotAnOption is returned for a dropdown value missing from its options.
	ErrNotAnOption = errors.New("value is not one of the options")
	// ErrMissingOptions is returned for a dropdown parameter without options.
	ErrMissingOptions = errors.New("dropdown parameter has no options")
	// ErrInvalidColor is returned for text that is not a colour.
	ErrInvalidColor = errors.New("invalid color")
	// ErrAutoUnsupported is returned when toggling auto mode on a parameter
	// that has no "auto" field.
	ErrAutoUnsupported = errors.New("parameter does not support auto mode")
	// ErrNotAnObject is reported by Validate for a section or parameter entry
	// that is null or not a JSON object.
	ErrNotAnObject = errors.New("entry is not an object")
	// ErrNotFound is returned when a block, section or parameter does not exist.
	ErrNotFound = errors.New("not found")
)

// ParamError locates an error at a parameter inside a block.
type ParamError struct {
	Section string
	Name    string
	Err     error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Section, e.Name, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

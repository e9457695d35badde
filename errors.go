package flight

import (
	"errors"
	"fmt"
)

// Sentinel errors for component operations.
var (
	ErrMissingTarget       = errors.New("flight: component needs to be attached to a selection, node or selector")
	ErrMissingNode         = errors.New("flight: component needs a node")
	ErrInvalidCallback     = errors.New("flight: callback is not a function or a rule set")
	ErrRequiredAttr        = errors.New("flight: required attribute not specified")
	ErrUnknownDelegateAttr = errors.New("flight: delegate rule references an undefined attribute")
	ErrUnserializable      = errors.New("flight: event triggered with non-serializable data")
	ErrNotRegistered       = errors.New("flight: instance is not registered")
	ErrUnknownMethod       = errors.New("flight: no such method")
)

// ConfigError reports an attribute problem on a specific component.
type ConfigError struct {
	Component string
	Attr      string
	Err       error
}

func (e *ConfigError) Error() string {
	switch e.Err {
	case ErrRequiredAttr:
		return fmt.Sprintf("flight: required attribute %q not specified in attachTo for component %q", e.Attr, e.Component)
	case ErrUnknownDelegateAttr:
		return fmt.Sprintf("flight: component %q wants to listen on %q but no such attribute was defined", e.Component, e.Attr)
	}
	return fmt.Sprintf("flight: component %q attribute %q: %v", e.Component, e.Attr, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SerializationError reports an event payload that failed the structured
// clone probe in debug mode.
type SerializationError struct {
	Component string
	Type      string
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("flight: the event %s on component %s was triggered with non-serializable data: %v", e.Type, e.Component, e.Err)
}

func (e *SerializationError) Unwrap() []error {
	return []error{ErrUnserializable, e.Err}
}

// IsUsageError checks if err reports API misuse: a missing target or node,
// or an invalid callback.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrMissingTarget) ||
		errors.Is(err, ErrMissingNode) ||
		errors.Is(err, ErrInvalidCallback)
}

// IsConfigError checks if err is a missing or undefined attribute error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrRequiredAttr) || errors.Is(err, ErrUnknownDelegateAttr)
}

// IsSerializationError checks if err is a payload serialization failure.
func IsSerializationError(err error) bool {
	return errors.Is(err, ErrUnserializable)
}

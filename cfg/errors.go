package cfg

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// ErrInvalidConfig is the root error kind for configurations that cannot be
// built or merged. All typed errors in this package unwrap to it, so callers
// can match the family with errors.Is.
var ErrInvalidConfig = errors.New("wiregen: invalid configuration")

// UnresolvedParamError is returned when a required constructor parameter has
// no resolvable class or interface type and neither the ignore flag nor an
// already-registered service applies.
type UnresolvedParamError struct {
	Class ClassName
	Param string
}

// Error implements the error interface.
func (e UnresolvedParamError) Error() string {
	// Example: wiregen: cannot resolve parameter "maxRetries" of class "svc.Dialer"
	return "wiregen: cannot resolve parameter " + strconv.Quote(e.Param) +
		" of class " + strconv.Quote(string(e.Class))
}

// Unwrap marks the error as an ErrInvalidConfig.
func (e UnresolvedParamError) Unwrap() error { return ErrInvalidConfig }

// NotMappingError is returned when a configuration section that must be a
// mapping holds something else. GotType is the reflect string of the value
// actually found.
type NotMappingError struct {
	Key     string
	GotType string
}

// Error implements the error interface.
func (e NotMappingError) Error() string {
	// Example: wiregen: section "…ConfigFactory" is not a mapping (got string)
	return "wiregen: section " + strconv.Quote(e.Key) + " is not a mapping (got " + e.GotType + ")"
}

// Unwrap marks the error as an ErrInvalidConfig.
func (e NotMappingError) Unwrap() error { return ErrInvalidConfig }

// CycleError is returned when constructor dependencies form a cycle. A cyclic
// graph cannot be expressed as wiring configuration, so it is treated as an
// invalid configuration rather than recursed into forever.
type CycleError struct {
	Class ClassName
	Chain []ClassName
}

// Error implements the error interface.
func (e CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, c := range e.Chain {
		parts[i] = string(c)
	}
	// Example: wiregen: cyclic constructor dependency on "a.A" (a.A -> a.B -> a.A)
	return "wiregen: cyclic constructor dependency on " + strconv.Quote(string(e.Class)) +
		" (" + strings.Join(parts, " -> ") + ")"
}

// Unwrap marks the error as an ErrInvalidConfig.
func (e CycleError) Unwrap() error { return ErrInvalidConfig }

// UnsupportedValueError is returned by the serializer for a value it has no
// literal form for.
type UnsupportedValueError struct {
	GotType string
}

// Error implements the error interface.
func (e UnsupportedValueError) Error() string {
	return "wiregen: cannot serialize value of type " + e.GotType
}

// gotTypeOf renders the reflect type string of an arbitrary value for error
// reporting.
func gotTypeOf(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

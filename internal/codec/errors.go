package codec

import (
	"fmt"

	"github.com/antondlr/gicar-serial/internal/fieldmap"
)

// ReadOnlyFieldError is returned when writing a read-only field.
type ReadOnlyFieldError struct {
	Field string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("field %s is read-only", e.Field)
}

// OffsetOutOfBoundsError is returned when a write range does not fit in the
// image.
type OffsetOutOfBoundsError struct {
	Field  string
	Offset int
	Width  int
	Len    int
}

func (e *OffsetOutOfBoundsError) Error() string {
	name := e.Field
	if name == "" {
		name = "range"
	}
	return fmt.Sprintf("%s at offset %d (width %d) does not fit in image of %d bytes",
		name, e.Offset, e.Width, e.Len)
}

// UnwritableMappedValueError is returned when a label maps to a predicate
// rather than a concrete raw value.
type UnwritableMappedValueError struct {
	Field   string
	Label   string
	Matcher fieldmap.Matcher
}

func (e *UnwritableMappedValueError) Error() string {
	return fmt.Sprintf("field %s: label %q maps to expression %q and cannot be written",
		e.Field, e.Label, e.Matcher)
}

// InvalidValueError is returned for inputs the field cannot represent.
type InvalidValueError struct {
	Field  string
	Input  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("field %s: invalid value %q: %s", e.Field, e.Input, e.Reason)
}

// InvalidClockError is returned for autotimer times outside 00:00..23:59.
type InvalidClockError struct {
	Input  string
	Reason string
}

func (e *InvalidClockError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

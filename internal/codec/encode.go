package codec

import (
	"math"
	"strconv"

	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/protocol"
)

// Input is a logical value to write: either a label or a number.
type Input struct {
	label   string
	number  float64
	isLabel bool
}

// Label is a label input, such as "on".
func Label(s string) Input { return Input{label: s, isLabel: true} }

// Number is a numeric input in logical units (e.g. degrees, not tenths).
func Number(v float64) Input { return Input{number: v} }

// ParseInput interprets text typed by a user. Declared labels of a mapped
// field win; anything else must parse as a number.
func ParseInput(spec fieldmap.FieldSpec, s string) Input {
	if spec.Mapped() {
		if _, ok := spec.Mapping(s); ok {
			return Label(s)
		}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(v)
	}
	return Label(s)
}

func (in Input) String() string {
	if in.isLabel {
		return in.label
	}
	return strconv.FormatFloat(in.number, 'f', -1, 64)
}

// Set writes a logical value into the image at the field's absolute offset.
// On error the image is left unmodified.
func Set(spec fieldmap.FieldSpec, img *memory.Image, in Input) error {
	if spec.ReadOnly {
		return &ReadOnlyFieldError{Field: spec.Name}
	}
	if err := checkBounds(spec.Name, img, int(spec.Offset), int(spec.Width)); err != nil {
		return err
	}

	raw, err := toRaw(spec, in)
	if err != nil {
		return err
	}

	return img.PutUint(int(spec.Offset), spec.Width, raw&spec.Width.Mask())
}

// SetByName is Set for a field looked up by name.
func SetByName(name string, img *memory.Image, in Input) error {
	spec, err := fieldmap.Lookup(name)
	if err != nil {
		return err
	}
	return Set(spec, img, in)
}

// WriteCommandFor frames exactly the bytes owned by the field.
func WriteCommandFor(spec fieldmap.FieldSpec, img *memory.Image) (protocol.WriteCommand, error) {
	if err := checkBounds(spec.Name, img, int(spec.Offset), int(spec.Width)); err != nil {
		return protocol.WriteCommand{}, err
	}
	return img.WriteCommand(spec.Offset, int(spec.Width)), nil
}

func toRaw(spec fieldmap.FieldSpec, in Input) (uint64, error) {
	if in.isLabel {
		if !spec.Mapped() {
			return 0, &InvalidValueError{Field: spec.Name, Input: in.label, Reason: "expected a number"}
		}
		m, ok := spec.Mapping(in.label)
		if !ok {
			return 0, &InvalidValueError{Field: spec.Name, Input: in.label, Reason: "unknown label"}
		}
		if m.Match.IsPredicate() {
			return 0, &UnwritableMappedValueError{Field: spec.Name, Label: m.Label, Matcher: m.Match}
		}
		return uint64(m.Match.Value), nil
	}

	v := in.number
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidValueError{Field: spec.Name, Input: in.String(), Reason: "not a finite number"}
	}

	if spec.Scaled() {
		return uint64(int64(math.Round(v * spec.Scale))), nil
	}

	if v != math.Trunc(v) {
		return 0, &InvalidValueError{Field: spec.Name, Input: in.String(), Reason: "expected an integer"}
	}
	// Negative values wrap, as the board tooling always did.
	return uint64(int64(v)), nil
}

func checkBounds(name string, img *memory.Image, offset, width int) error {
	if offset < 0 || offset+width > img.Len() {
		return &OffsetOutOfBoundsError{Field: name, Offset: offset, Width: width, Len: img.Len()}
	}
	return nil
}

package fieldmap

import (
	"fmt"
	"strconv"
)

// Width is the size of a field in bytes. Fields are unsigned little-endian.
type Width uint8

const (
	U8    Width = 1
	U16LE Width = 2
	U32LE Width = 4
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == U8 || w == U16LE || w == U32LE
}

// Mask returns the largest value representable in w bytes.
func (w Width) Mask() uint64 {
	return 1<<(8*uint(w)) - 1
}

func (w Width) String() string {
	switch w {
	case U8:
		return "u8"
	case U16LE:
		return "u16le"
	case U32LE:
		return "u32le"
	default:
		return fmt.Sprintf("width(%d)", uint8(w))
	}
}

// ParseWidth parses a size in bytes as typed by a user.
func ParseWidth(s string) (Width, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 || !Width(n).Valid() {
		return 0, fmt.Errorf("size must be 1, 2 or 4, got %q", s)
	}
	return Width(n), nil
}

// MatchKind selects how a Matcher compares a raw value.
type MatchKind uint8

const (
	MatchEquals MatchKind = iota
	MatchGreaterThan
	MatchLessThan
)

// Matcher is a closed set of raw-value tests. Only Equals matchers can be
// inverted back to a concrete raw value.
type Matcher struct {
	Kind  MatchKind
	Value int64
}

func Equals(v int64) Matcher      { return Matcher{Kind: MatchEquals, Value: v} }
func GreaterThan(v int64) Matcher { return Matcher{Kind: MatchGreaterThan, Value: v} }
func LessThan(v int64) Matcher    { return Matcher{Kind: MatchLessThan, Value: v} }

// Match reports whether raw satisfies the matcher.
func (m Matcher) Match(raw int64) bool {
	switch m.Kind {
	case MatchEquals:
		return raw == m.Value
	case MatchGreaterThan:
		return raw > m.Value
	case MatchLessThan:
		return raw < m.Value
	default:
		return false
	}
}

// IsPredicate is true for matchers that describe a range of raw values.
func (m Matcher) IsPredicate() bool {
	return m.Kind != MatchEquals
}

func (m Matcher) String() string {
	switch m.Kind {
	case MatchEquals:
		return fmt.Sprintf("%d", m.Value)
	case MatchGreaterThan:
		return fmt.Sprintf("value > %d", m.Value)
	case MatchLessThan:
		return fmt.Sprintf("value < %d", m.Value)
	default:
		return "invalid"
	}
}

// Mapping binds a label to a matcher.
type Mapping struct {
	Label string
	Match Matcher
}

// FieldSpec describes one named field of the memory image.
type FieldSpec struct {
	Name        string
	Offset      uint16
	Width       Width
	Description string

	// Scale is the storage multiplier (stored = logical * Scale). Zero means
	// the field is not scaled. When both Scale and Values are set, Scale wins.
	Scale float64

	// Values maps raw values to labels, evaluated in order.
	Values []Mapping

	ReadOnly bool

	// Unreliable marks fields whose declared offset is known to be doubtful.
	Unreliable bool

	// Descriptive only, never enforced.
	Min, Max, Default *float64
}

// Scaled reports whether the field carries a storage multiplier.
func (f FieldSpec) Scaled() bool {
	return f.Scale > 0
}

// Mapped reports whether the field translates raw values to labels.
// A scaled field is never treated as mapped.
func (f FieldSpec) Mapped() bool {
	return !f.Scaled() && len(f.Values) > 0
}

// Label returns the first label whose matcher accepts raw.
func (f FieldSpec) Label(raw int64) (string, bool) {
	for _, m := range f.Values {
		if m.Match.Match(raw) {
			return m.Label, true
		}
	}
	return "", false
}

// Mapping returns the mapping declared for label.
func (f FieldSpec) Mapping(label string) (Mapping, bool) {
	for _, m := range f.Values {
		if m.Label == label {
			return m, true
		}
	}
	return Mapping{}, false
}

// Labels returns the declared labels in order.
func (f FieldSpec) Labels() []string {
	out := make([]string, 0, len(f.Values))
	for _, m := range f.Values {
		out = append(out, m.Label)
	}
	return out
}

// End returns the absolute address just past the field.
func (f FieldSpec) End() int {
	return int(f.Offset) + int(f.Width)
}

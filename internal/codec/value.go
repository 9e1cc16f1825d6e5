package codec

import (
	"math"
	"strconv"
)

// Kind identifies which member of a Value is set.
type Kind uint8

const (
	KindInt Kind = iota
	KindScaled
	KindLabel
)

// Value is one decoded field.
type Value struct {
	Kind   Kind
	Int    uint64
	Scaled float64
	Label  string
}

func IntValue(v uint64) Value { return Value{Kind: KindInt, Int: v} }
func ScaledValue(v float64) Value { return Value{Kind: KindScaled, Scaled: v} }
func LabelValue(s string) Value { return Value{Kind: KindLabel, Label: s} }

// Interface returns the value as uint64, float64 or string, for encoders.
func (v Value) Interface() any {
	switch v.Kind {
	case KindScaled:
		return v.Scaled
	case KindLabel:
		return v.Label
	default:
		return v.Int
	}
}

// String renders scaled values with at least one decimal ("93.0").
func (v Value) String() string {
	switch v.Kind {
	case KindScaled:
		if v.Scaled == math.Trunc(v.Scaled) && !math.IsInf(v.Scaled, 0) {
			return strconv.FormatFloat(v.Scaled, 'f', 1, 64)
		}
		return strconv.FormatFloat(v.Scaled, 'f', -1, 64)
	case KindLabel:
		return v.Label
	default:
		return strconv.FormatUint(v.Int, 10)
	}
}

// Entry is a named decoded value.
type Entry struct {
	Name  string
	Value Value
}

// Values is an ordered set of decoded fields.
type Values []Entry

// Get returns the value decoded for name.
func (vs Values) Get(name string) (Value, bool) {
	for _, e := range vs {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Map converts the set for generic encoders.
func (vs Values) Map() map[string]any {
	out := make(map[string]any, len(vs))
	for _, e := range vs {
		out[e.Name] = e.Value.Interface()
	}
	return out
}

// Filter keeps the entries accepted by keep.
func (vs Values) Filter(keep func(name string) bool) Values {
	var out Values
	for _, e := range vs {
		if keep(e.Name) {
			out = append(out, e)
		}
	}
	return out
}

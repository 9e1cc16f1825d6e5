package fieldmap

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is returned for names that are not in the map.
var ErrFieldNotFound = errors.New("field not found")

var byName = func() map[string]int {
	m := make(map[string]int, len(table))
	for i, f := range table {
		if _, dup := m[f.Name]; dup {
			panic("fieldmap: duplicate field " + f.Name)
		}
		if !f.Width.Valid() {
			panic("fieldmap: invalid width for " + f.Name)
		}
		m[f.Name] = i
	}
	return m
}()

// Lookup returns the spec for name.
func Lookup(name string) (FieldSpec, error) {
	i, ok := byName[name]
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	return table[i], nil
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) FieldSpec {
	f, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return f
}

// All returns every field in declared order.
func All() []FieldSpec {
	out := make([]FieldSpec, len(table))
	copy(out, table)
	return out
}

// Names returns every field name in declared order.
func Names() []string {
	out := make([]string, len(table))
	for i, f := range table {
		out[i] = f.Name
	}
	return out
}

// AtOffset returns the fields declared at an absolute address.
func AtOffset(offset int) []FieldSpec {
	var out []FieldSpec
	for _, f := range table {
		if int(f.Offset) == offset {
			out = append(out, f)
		}
	}
	return out
}

// Groups returns the presentation groups.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Title: g.Title, Fields: append([]string(nil), g.Fields...)}
	}
	return out
}

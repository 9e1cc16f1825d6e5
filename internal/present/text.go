package present

import (
	"fmt"
	"io"

	"github.com/antondlr/gicar-serial/internal/codec"
	"github.com/antondlr/gicar-serial/internal/fieldmap"
)

// errWriter keeps the first write error so the text renderers read as
// straight-line code.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func get(vals codec.Values, name, fallback string) string {
	if v, ok := vals.Get(name); ok {
		return v.String()
	}
	return fallback
}

func tempUnit(vals codec.Values) string {
	if get(vals, "temperature_unit", "") == "fahrenheit" {
		return "°F"
	}
	return "°C"
}

func writeSummary(w io.Writer, vals codec.Values) error {
	ew := &errWriter{w: w}
	unit := tempUnit(vals)

	ew.printf("Ascaso Baby T Status:\n")
	ew.printf("  Model: %s\n", get(vals, fieldmap.Model, fieldmap.UnknownModel))
	ew.printf("  Power: %s\n", get(vals, fieldmap.PowerState, "Unknown"))
	ew.printf("  Coffee Group: %s\n", get(vals, "coffee_group_state", "Unknown"))
	ew.printf("  Steam: %s\n", get(vals, "steam_state", "Unknown"))
	ew.printf("  Coffee Temperature: %s%s\n", get(vals, fieldmap.CoffeeTemperature, "Unknown"), unit)
	ew.printf("  Steam Temperature: %s%s\n", get(vals, "steam_temperature", "Unknown"), unit)

	ew.printf("\nCounters:\n")
	ew.printf("  S1: %s, S2: %s\n", get(vals, "counter_S1", "0"), get(vals, "counter_S2", "0"))
	ew.printf("  L1: %s, L2: %s\n", get(vals, "counter_L1", "0"), get(vals, "counter_L2", "0"))
	ew.printf("  XL: %s\n", get(vals, "counter_XL", "0"))
	ew.printf("  Total: %s\n", get(vals, "counter_total", "0"))

	ew.printf("\nUse -verbose for complete information\n")
	return ew.err
}

func writeGrouped(w io.Writer, vals codec.Values) error {
	ew := &errWriter{w: w}
	for i, g := range fieldmap.Groups() {
		if i > 0 {
			ew.printf("\n")
		}
		ew.printf("%s:\n", g.Title)
		for _, name := range g.Fields {
			if v, ok := vals.Get(name); ok {
				writeField(ew, name, v)
			}
		}
	}
	return ew.err
}

func writeFlat(w io.Writer, vals codec.Values) error {
	ew := &errWriter{w: w}
	for _, e := range vals {
		writeField(ew, e.Name, e.Value)
	}
	return ew.err
}

func writeField(ew *errWriter, name string, v codec.Value) {
	spec, err := fieldmap.Lookup(name)
	if err != nil || spec.Description == "" {
		ew.printf("  %s: %s\n", name, v)
		return
	}
	note := ""
	if spec.Unreliable {
		note = ", unverified offset"
	}
	ew.printf("  %s: %s (%s%s)\n", name, v, spec.Description, note)
}

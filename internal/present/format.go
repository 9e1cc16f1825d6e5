// Package present renders decoded state and write commands for people and
// for other programs.
package present

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/antondlr/gicar-serial/internal/codec"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat accepts the names above, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (text, json, yaml, cbor)", s)
	}
}

// cborMode encodes maps with sorted keys so equal states encode equally.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("present: cbor encoder mode: %v", err))
	}
}

// Options controls WriteState.
type Options struct {
	Format  Format
	Verbose bool

	// Filter keeps fields whose name contains it. Empty keeps all.
	Filter string
}

// WriteState renders decoded values in the requested format.
func WriteState(w io.Writer, vals codec.Values, opts Options) error {
	if opts.Filter != "" {
		vals = vals.Filter(func(name string) bool {
			return strings.Contains(name, opts.Filter)
		})
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vals.Map())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(vals.Map()); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return cborMode.NewEncoder(w).Encode(vals.Map())
	case FormatText, "":
		switch {
		case opts.Filter != "":
			return writeFlat(w, vals)
		case opts.Verbose:
			return writeGrouped(w, vals)
		default:
			return writeSummary(w, vals)
		}
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

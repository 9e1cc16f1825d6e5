package codec

import (
	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
)

// Decode interprets one field. ok is false when the adjusted range falls
// outside the payload or when no value mapping accepts the raw value.
func Decode(spec fieldmap.FieldSpec, img *memory.Image) (Value, bool) {
	raw, ok := readAdjusted(img, int(spec.Offset), spec.Width)
	if !ok {
		return Value{}, false
	}

	switch {
	case spec.Scaled():
		return ScaledValue(float64(raw) / spec.Scale), true
	case spec.Mapped():
		label, ok := spec.Label(int64(raw))
		if !ok {
			return Value{}, false
		}
		return LabelValue(label), true
	default:
		return IntValue(raw), true
	}
}

// DecodeModel resolves the model byte through the model table. Unmapped or
// unreadable bytes yield fieldmap.UnknownModel.
func DecodeModel(img *memory.Image) string {
	spec := fieldmap.MustLookup(fieldmap.Model)
	raw, ok := readAdjusted(img, int(spec.Offset), spec.Width)
	if !ok {
		return fieldmap.UnknownModel
	}
	return fieldmap.ModelName(raw)
}

// DecodeAll decodes every field in map order, leaving out absent ones.
// The model is always present.
func DecodeAll(img *memory.Image) Values {
	var out Values
	for _, spec := range fieldmap.All() {
		if spec.Name == fieldmap.Model {
			out = append(out, Entry{Name: spec.Name, Value: LabelValue(DecodeModel(img))})
			continue
		}
		if v, ok := Decode(spec, img); ok {
			out = append(out, Entry{Name: spec.Name, Value: v})
		}
	}
	return out
}

// DecodeByName is Decode for a field looked up by name.
func DecodeByName(name string, img *memory.Image) (Value, bool, error) {
	spec, err := fieldmap.Lookup(name)
	if err != nil {
		return Value{}, false, err
	}
	v, ok := Decode(spec, img)
	return v, ok, nil
}

// Peek reads a raw value at an arbitrary catalog address, applying the same
// adjustment as Decode.
func Peek(img *memory.Image, offset int, width fieldmap.Width) (uint64, bool) {
	return readAdjusted(img, offset, width)
}

func readAdjusted(img *memory.Image, offset int, width fieldmap.Width) (uint64, bool) {
	return img.Uint(offset-img.OffsetAdjustment(), width)
}

package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/protocol"
)

// autotimerOff is stored in every time byte while the timer is disabled.
const autotimerOff = 100

// ErrNoClock is returned by SetAutotimer when neither time is given.
var ErrNoClock = errors.New("no autotimer time given")

// SpanCommand frames an arbitrary contiguous range of the image.
func SpanCommand(img *memory.Image, start, length int) (protocol.WriteCommand, error) {
	if start < 0 || length < 0 || start > protocol.MaxFieldValue {
		return protocol.WriteCommand{}, &OffsetOutOfBoundsError{Offset: start, Width: length, Len: img.Len()}
	}
	if err := checkBounds("", img, start, length); err != nil {
		return protocol.WriteCommand{}, err
	}
	return img.WriteCommand(uint16(start), length), nil
}

// Clock is a time of day for the power timer.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "hh:mm" (24 hour).
func ParseClock(s string) (Clock, error) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return Clock{}, &InvalidClockError{Input: s, Reason: "expected hh:mm"}
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return Clock{}, &InvalidClockError{Input: s, Reason: "hour is not a number"}
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return Clock{}, &InvalidClockError{Input: s, Reason: "minute is not a number"}
	}
	c := Clock{Hour: hour, Minute: minute}
	if err := c.validate(); err != nil {
		return Clock{}, err
	}
	return c, nil
}

func (c Clock) validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return &InvalidClockError{Input: c.String(), Reason: "hour must be 0-23"}
	}
	if c.Minute < 0 || c.Minute > 59 {
		return &InvalidClockError{Input: c.String(), Reason: "minute must be 0-59"}
	}
	return nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DisableAutotimer clears the enable flag and parks all four time bytes,
// returning one command covering the whole timer block.
func DisableAutotimer(img *memory.Image) (protocol.WriteCommand, error) {
	return writeTimerBlock(img, 0, autotimerOff, autotimerOff, autotimerOff, autotimerOff)
}

// EnableAutotimer sets only the enable flag.
func EnableAutotimer(img *memory.Image) (protocol.WriteCommand, error) {
	spec := fieldmap.MustLookup(fieldmap.AutotimerEnabled)
	if err := Set(spec, img, Label("enabled")); err != nil {
		return protocol.WriteCommand{}, err
	}
	return WriteCommandFor(spec, img)
}

// SetAutotimer programs the timer. With both times the timer is also
// enabled and the whole block is sent; with one time only that pair of
// bytes is sent.
func SetAutotimer(img *memory.Image, on, off *Clock) (protocol.WriteCommand, error) {
	for _, c := range []*Clock{on, off} {
		if c == nil {
			continue
		}
		if err := c.validate(); err != nil {
			return protocol.WriteCommand{}, err
		}
	}

	switch {
	case on != nil && off != nil:
		return writeTimerBlock(img, 1,
			uint64(on.Hour), uint64(on.Minute), uint64(off.Hour), uint64(off.Minute))
	case on != nil:
		return writeClock(img, fieldmap.AutotimerHourOn, fieldmap.AutotimerMinuteOn, *on)
	case off != nil:
		return writeClock(img, fieldmap.AutotimerHourOff, fieldmap.AutotimerMinuteOff, *off)
	default:
		return protocol.WriteCommand{}, ErrNoClock
	}
}

// SetRaw writes value at an absolute offset and frames that range.
// The value is masked to width bytes.
func SetRaw(img *memory.Image, offset int, width fieldmap.Width, value int64) (protocol.WriteCommand, error) {
	if !width.Valid() {
		return protocol.WriteCommand{}, fmt.Errorf("%w: %d", memory.ErrInvalidWidth, width)
	}
	if offset > protocol.MaxFieldValue {
		return protocol.WriteCommand{}, &OffsetOutOfBoundsError{Offset: offset, Width: int(width), Len: img.Len()}
	}
	if err := checkBounds("", img, offset, int(width)); err != nil {
		return protocol.WriteCommand{}, err
	}
	if err := img.PutUint(offset, width, uint64(value)&width.Mask()); err != nil {
		return protocol.WriteCommand{}, err
	}
	return img.WriteCommand(uint16(offset), int(width)), nil
}

func writeTimerBlock(img *memory.Image, enabled, hOn, mOn, hOff, mOff uint64) (protocol.WriteCommand, error) {
	first := fieldmap.MustLookup(fieldmap.AutotimerEnabled)
	last := fieldmap.MustLookup(fieldmap.AutotimerMinuteOff)
	start, length := int(first.Offset), last.End()-int(first.Offset)
	if err := checkBounds(fieldmap.AutotimerEnabled, img, start, length); err != nil {
		return protocol.WriteCommand{}, err
	}

	for i, v := range []uint64{enabled, hOn, mOn, hOff, mOff} {
		if err := img.PutUint(start+i, fieldmap.U8, v); err != nil {
			return protocol.WriteCommand{}, err
		}
	}
	return img.WriteCommand(uint16(start), length), nil
}

func writeClock(img *memory.Image, hourField, minuteField string, c Clock) (protocol.WriteCommand, error) {
	hour := fieldmap.MustLookup(hourField)
	minute := fieldmap.MustLookup(minuteField)
	if err := checkBounds(hourField, img, int(hour.Offset), minute.End()-int(hour.Offset)); err != nil {
		return protocol.WriteCommand{}, err
	}
	if err := Set(hour, img, Number(float64(c.Hour))); err != nil {
		return protocol.WriteCommand{}, err
	}
	if err := Set(minute, img, Number(float64(c.Minute))); err != nil {
		return protocol.WriteCommand{}, err
	}
	return img.WriteCommand(hour.Offset, minute.End()-int(hour.Offset)), nil
}

// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antondlr/gicar-serial/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

type deviceStatusWriter struct {
	plan *StatusPlan
	cli  RegisterClient

	needFull bool
	last     status.Snapshot
}

// NewDeviceStatusWriter builds a status writer if the plan enables it.
func NewDeviceStatusWriter(plan Plan, clients map[string]RegisterClient) (StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}

	return &deviceStatusWriter{
		plan:     plan.Status,
		cli:      clients[plan.Status.Endpoint],
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}, true
}

// WriteStatus delivers a device status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	base := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base, status.Encode(s, sw.plan.DeviceName)); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Incremental, one register per changed slot
	// ------------------------------------------------------------
	slots := []struct {
		name string
		slot uint16
		prev *uint16
		next uint16
	}{
		{"health", status.SlotHealthCode, &sw.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &sw.last.LastErrorCode, s.LastErrorCode},
		{"seconds_in_error", status.SlotSecondsInError, &sw.last.SecondsInError, s.SecondsInError},
		{"model", status.SlotModelCode, &sw.last.ModelCode, s.ModelCode},
		{"poll_count", status.SlotPollCount, &sw.last.PollCount, s.PollCount},
	}

	var errs []string
	for _, sl := range slots {
		if *sl.prev == sl.next {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base+sl.slot, []uint16{sl.next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.prev = sl.next
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt, re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

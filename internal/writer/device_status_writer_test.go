// internal/writer/device_status_writer_test.go
package writer

import (
	"testing"

	"github.com/antondlr/gicar-serial/internal/status"
)

func statusPlan() Plan {
	return Plan{
		Status: &StatusPlan{
			Endpoint:   "status-endpoint",
			UnitID:     1,
			BaseSlot:   2,
			DeviceName: "DEV-01",
		},
	}
}

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := statusPlan()

	sw, enabled := NewDeviceStatusWriter(plan, map[string]RegisterClient{"status-endpoint": cli})
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}

	// ---- first write: FULL ASSERT ----
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK, ModelCode: 2}); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full block write (%d regs), got %d", status.SlotsPerDevice, len(cli.lastRegs))
	}
	if cli.lastRegsAddr != 2*status.SlotsPerDevice {
		t.Fatalf("unexpected base addr %d", cli.lastRegsAddr)
	}

	expectedNameRegs := status.EncodeDeviceName(plan.Status.DeviceName)
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if cli.lastRegs[slot] != expectedNameRegs[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d", slot, cli.lastRegs[slot], expectedNameRegs[i])
		}
	}

	// ---- second write: INCREMENTAL ONLY ----
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 7, ModelCode: 2}); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	if len(cli.writes) != 3 {
		t.Fatalf("expected full + 2 single-slot writes, got %d", len(cli.writes))
	}
	if len(cli.lastRegs) != 1 {
		t.Fatalf("device name should not be rewritten on incremental update")
	}
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := statusPlan()

	sw, _ := NewDeviceStatusWriter(plan, map[string]RegisterClient{"status-endpoint": cli})

	errSnap := status.Snapshot{Health: status.HealthError, LastErrorCode: 2, SecondsInError: 3}
	if err := sw.WriteStatus(errSnap); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}

	okSnap := status.Snapshot{Health: status.HealthError, LastErrorCode: 2, SecondsInError: 0}
	if err := sw.WriteStatus(okSnap); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	expectedAddr := plan.Status.BaseSlot*status.SlotsPerDevice + status.SlotSecondsInError
	if cli.lastRegsAddr != expectedAddr {
		t.Fatalf("unexpected write addr: got=%d want=%d", cli.lastRegsAddr, expectedAddr)
	}
	if len(cli.lastRegs) != 1 || cli.lastRegs[0] != 0 {
		t.Fatalf("seconds_in_error not reset: %v", cli.lastRegs)
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(statusPlan(), map[string]RegisterClient{"status-endpoint": cli})

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatal(err)
	}

	cli.fail = true
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err == nil {
		t.Fatalf("expected error while endpoint is down")
	}

	cli.fail = false
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err != nil {
		t.Fatal(err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full re-assert after failure, got %d regs", len(cli.lastRegs))
	}
}

func TestStatusDisabled(t *testing.T) {
	if _, enabled := NewDeviceStatusWriter(Plan{}, nil); enabled {
		t.Fatalf("status writer should be disabled without a status plan")
	}
}

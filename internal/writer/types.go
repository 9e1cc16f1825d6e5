// internal/writer/types.go
package writer

import "github.com/antondlr/gicar-serial/internal/poller"

// StatusPlan places the device status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one mirrored device.
type Plan struct {
	Device   string
	Endpoint string
	UnitID   uint8
	Address  uint16 // first holding register of the image

	Status *StatusPlan // nil when the status block is disabled
}

// Writer writes poll snapshots into the endpoint.
type Writer interface {
	Write(res poller.PollResult) error
}

// RegisterClient is the exact contract the writers use.
type RegisterClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

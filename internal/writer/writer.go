// internal/writer/writer.go
package writer

import (
	"fmt"

	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/poller"
)

type imageWriter struct {
	plan    Plan
	clients map[string]RegisterClient
}

func New(plan Plan, clients map[string]RegisterClient) Writer {
	return &imageWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write mirrors a good poll. Failed polls leave the registers untouched;
// the status block reports them.
func (w *imageWriter) Write(res poller.PollResult) error {
	if res.Err != nil || res.Image == nil {
		return nil
	}

	cli := w.clients[w.plan.Endpoint]
	if cli == nil {
		return fmt.Errorf("writer: missing client for endpoint %s", w.plan.Endpoint)
	}

	regs := ImageRegisters(res.Image)
	if err := cli.WriteRegisters(w.plan.UnitID, w.plan.Address, regs); err != nil {
		return fmt.Errorf(
			"writer: ep=%s unit=%d addr=%d qty=%d err=%w",
			w.plan.Endpoint, w.plan.UnitID, w.plan.Address, len(regs), err,
		)
	}
	return nil
}

// ImageRegisters lays the image out by device address: payload byte i
// lands at address OffsetAdjustment+i of a DefaultSize buffer, which is
// then packed two bytes per register, big-endian. Register n therefore
// holds device addresses 2n and 2n+1.
func ImageRegisters(img *memory.Image) []uint16 {
	buf := make([]byte, memory.DefaultSize)
	if adj := img.OffsetAdjustment(); adj >= 0 && adj < len(buf) {
		copy(buf[adj:], img.Bytes())
	}

	regs := make([]uint16, len(buf)/2)
	for i := range regs {
		regs[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
	}
	return regs
}

// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxRegistersPerWrite is the FC16 limit of one request.
const MaxRegistersPerWrite = 123

// EndpointClient is a single TCP connection to one Modbus endpoint.
// It serializes requests because it mutates SlaveId per write.
type EndpointClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewEndpointClient connects once so a bad endpoint fails at startup.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("writer modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters writes regs as holding registers starting at addr,
// split into FC16-sized requests. After a failure the connection is dropped
// and the handler dials again on the next request.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID

	for start := 0; start < len(regs); start += MaxRegistersPerWrite {
		end := min(start+MaxRegistersPerWrite, len(regs))
		chunk := regs[start:end]

		_, err := c.client.WriteMultipleRegisters(addr+uint16(start), uint16(len(chunk)), PackRegisters(chunk))
		if err != nil {
			_ = c.handler.Close()
			return err
		}
	}
	return nil
}

// PackRegisters encodes registers big-endian, as they travel on the wire.
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
